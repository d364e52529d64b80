package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"cloud.google.com/go/storage"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// ObjectStore はバケットへのオブジェクト書き込みを抽象化するインターフェースです。
type ObjectStore interface {
	NewObjectWriter(ctx context.Context, name, contentType string) io.WriteCloser
}

// gcsObjectStore は ObjectStore の Cloud Storage 実装です。
type gcsObjectStore struct {
	bucket *storage.BucketHandle
}

func (s *gcsObjectStore) NewObjectWriter(ctx context.Context, name, contentType string) io.WriteCloser {
	wc := s.bucket.Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	return wc
}

// GCSWriter は Google Cloud Storage へ画像をアップロードします。
// 出力先に gs://bucket/prefix を指定した場合に使われます。
type GCSWriter struct {
	store  ObjectStore
	bucket string
	prefix string
	now    func() time.Time
}

// NewGCSWriter は依存関係を注入して GCSWriter を初期化します。
func NewGCSWriter(client *storage.Client, bucket, prefix string) *GCSWriter {
	return &GCSWriter{
		store:  &gcsObjectStore{bucket: client.Bucket(bucket)},
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Write は全画像を1オブジェクトずつアップロードし、gs:// URI を返します。
// アップロード失敗は対象 URI を含めて ErrFilesystem で報告します。
func (w *GCSWriter) Write(ctx context.Context, result *domain.GenerationResult, slug string) ([]string, error) {
	ts := w.now()
	paths := make([]string, 0, len(result.Images))

	for i, img := range result.Images {
		name := path.Join(w.prefix, FileName(slug, ts, i, img.MimeType))
		uri := fmt.Sprintf("gs://%s/%s", w.bucket, name)

		wc := w.store.NewObjectWriter(ctx, name, img.MimeType)
		if _, err := wc.Write(img.Data); err != nil {
			_ = wc.Close()
			return nil, fmt.Errorf("%w: %s へのアップロードに失敗しました: %v", domain.ErrFilesystem, uri, err)
		}
		// GCS はエラーを Close 時に返すことがある
		if err := wc.Close(); err != nil {
			return nil, fmt.Errorf("%w: %s へのアップロードに失敗しました: %v", domain.ErrFilesystem, uri, err)
		}

		slog.InfoContext(ctx, "画像をGCSへアップロードしました", "uri", uri, "bytes", len(img.Data))
		paths = append(paths, uri)
	}
	return paths, nil
}
