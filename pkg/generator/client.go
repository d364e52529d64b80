package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// NewVertexClient は Vertex AI バックエンドの genai クライアントを生成します。
// 認証は Application Default Credentials に委ねます。資格情報が見つからない
// 場合はここで ErrAuthentication として失敗します。
func NewVertexClient(ctx context.Context, project, location string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: 認証情報を解決できませんでした (gcloud auth application-default login を確認してください): %v", domain.ErrAuthentication, err)
	}
	return client, nil
}

// NewForModel はモデル名に応じて適切なジェネレーターを返します。
// imagen-* は専用の GenerateImages API、それ以外は GenerateContent を使います。
func NewForModel(client *genai.Client, model string, fetcher ReferenceFetcher) (ImageGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if strings.HasPrefix(model, "imagen-") {
		return NewImagenGenerator(client.Models)
	}
	return NewGeminiGenerator(client.Models, fetcher)
}
