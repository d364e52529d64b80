package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// ImageWriter は生成結果の保存先を抽象化するインターフェースです。
// 保存に成功した各画像のパス（ローカルパスまたは gs:// URI）を返します。
type ImageWriter interface {
	Write(ctx context.Context, result *domain.GenerationResult, slug string) ([]string, error)
}

// NewWriter は出力先の形式に応じて LocalWriter / GCSWriter を返します。
// gs://bucket/prefix 形式なら GCS、それ以外はローカルディレクトリとして扱います。
func NewWriter(ctx context.Context, outputDir string) (ImageWriter, error) {
	if !strings.HasPrefix(outputDir, "gs://") {
		return NewLocalWriter(outputDir), nil
	}

	bucket, prefix := splitGSDir(outputDir)
	if bucket == "" {
		return nil, fmt.Errorf("%w: 不正な gs:// 出力先です: %s", domain.ErrValidation, outputDir)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: GCSクライアントを初期化できませんでした: %v", domain.ErrAuthentication, err)
	}
	return NewGCSWriter(client, bucket, prefix), nil
}

// LocalWriter はローカルファイルシステムへ画像を保存します。
type LocalWriter struct {
	dir string
	now func() time.Time
}

// NewLocalWriter は保存先ディレクトリを指定して LocalWriter を初期化します。
func NewLocalWriter(dir string) *LocalWriter {
	return &LocalWriter{dir: dir, now: time.Now}
}

// Write は出力ディレクトリを（無ければ作成して）全画像を書き込みます。
// ディレクトリ作成・書き込みの失敗は対象パスを含めて ErrFilesystem で報告します。
func (w *LocalWriter) Write(ctx context.Context, result *domain.GenerationResult, slug string) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: 出力ディレクトリ %s を作成できません: %v", domain.ErrFilesystem, w.dir, err)
	}

	ts := w.now()
	paths := make([]string, 0, len(result.Images))
	for i, img := range result.Images {
		path := filepath.Join(w.dir, FileName(slug, ts, i, img.MimeType))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %s に書き込めません: %v", domain.ErrFilesystem, path, err)
		}
		slog.InfoContext(ctx, "画像を保存しました", "path", path, "bytes", len(img.Data))
		paths = append(paths, path)
	}
	return paths, nil
}

// splitGSDir は gs://bucket/prefix をバケット名とプレフィックスに分解します。
// プレフィックスは省略可能です。
func splitGSDir(outputDir string) (bucket, prefix string) {
	trimmed := strings.TrimPrefix(outputDir, "gs://")
	bucket, prefix, _ = strings.Cut(trimmed, "/")
	return bucket, strings.Trim(prefix, "/")
}
