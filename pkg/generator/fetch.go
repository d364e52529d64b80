package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/shouni/imagen-cli/pkg/domain"
	"github.com/shouni/imagen-cli/pkg/imgutil"
)

const (
	// referenceJPEGQuality は参照画像を再圧縮する際の JPEG 品質です。
	referenceJPEGQuality = 75
	// referenceCompressThreshold を超える参照画像のみ JPEG へ再圧縮します。
	// 小さな画像はアルファチャンネル等を保ったまま原本を送ります。
	referenceCompressThreshold = 512 * 1024
	// referenceFetchTimeout は参照画像取得の上限時間です。
	referenceFetchTimeout = 30 * time.Second
)

// Fetcher は参照画像を HTTP(S) または GCS (gs://) から取得します。
// 規定サイズを超えるものはペイロード削減のため JPEG へ再圧縮して返します。
type Fetcher struct {
	httpClient *http.Client
	gcsClient  *storage.Client
}

// NewFetcher は依存関係を注入して Fetcher を初期化します。
// gcsClient は nil を許容します（gs:// 参照なし動作）。
func NewFetcher(httpClient *http.Client, gcsClient *storage.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: referenceFetchTimeout}
	}
	return &Fetcher{httpClient: httpClient, gcsClient: gcsClient}
}

// Fetch は URI の形式に応じて取得経路を切り替えます。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var data []byte
	var err error

	if strings.HasPrefix(rawURL, "gs://") {
		data, err = f.fetchGCS(ctx, rawURL)
	} else {
		if safe, serr := IsSafeURL(rawURL); serr != nil || !safe {
			return nil, fmt.Errorf("%w: 安全ではないURLが指定されました: %v", domain.ErrValidation, serr)
		}
		data, err = f.fetchHTTP(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}
	return compressIfOversized(data), nil
}

// compressIfOversized はしきい値を超える画像のみ JPEG へ再圧縮します。
// 再圧縮に失敗した場合は原本をそのまま返します。
func compressIfOversized(data []byte) []byte {
	if len(data) <= referenceCompressThreshold {
		return data
	}
	if compressed, err := imgutil.CompressToJPEG(data, referenceJPEGQuality); err == nil {
		return compressed
	}
	return data
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました: status code %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (f *Fetcher) fetchGCS(ctx context.Context, rawURL string) ([]byte, error) {
	if f.gcsClient == nil {
		return nil, fmt.Errorf("GCSクライアントが未設定のため gs:// を読み取れません: %s", rawURL)
	}

	bucket, object, err := parseGSURI(rawURL)
	if err != nil {
		return nil, err
	}

	rc, err := f.gcsClient.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCSオブジェクトを開けませんでした (%s): %w", rawURL, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// parseGSURI は gs://bucket/path/to/object をバケット名とオブジェクト名に分解します。
func parseGSURI(rawURL string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(rawURL, "gs://")
	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || object == "" {
		return "", "", fmt.Errorf("不正な gs:// URI です: %s", rawURL)
	}
	return bucket, object, nil
}
