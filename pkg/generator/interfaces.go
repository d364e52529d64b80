package generator

import (
	"context"

	"google.golang.org/genai"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// ImageGenerator は CLI 層が利用する統合窓口です。
// モデル系列（Imagen / Gemini）ごとの実装差をこの背後に隠します。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// ImagenModel は Imagen 系 API の通信面を抽象化するインターフェースです。
// *genai.Client の Models がそのまま満たします。テストではモックに差し替えます。
type ImagenModel interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GenerativeModel は Gemini 系 GenerateContent の通信面を抽象化するインターフェースです。
type GenerativeModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ReferenceFetcher は参照画像の取得を抽象化するインターフェースです。
type ReferenceFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}
