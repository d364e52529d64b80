package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// GeminiGenerator は Gemini 系画像モデルによる生成を担当します。
// 参照画像を1枚添付できる点が Imagen 系との違いです。
type GeminiGenerator struct {
	models  GenerativeModel
	fetcher ReferenceFetcher
}

// NewGeminiGenerator は依存関係を注入して GeminiGenerator を初期化します。
// fetcher は nil を許容します（参照画像なし動作）。
func NewGeminiGenerator(models GenerativeModel, fetcher ReferenceFetcher) (*GeminiGenerator, error) {
	if models == nil {
		return nil, fmt.Errorf("models (GenerativeModel) is required")
	}
	return &GeminiGenerator{models: models, fetcher: fetcher}, nil
}

// Generate はプロンプト（と任意の参照画像）から GenerateContent で画像を生成します。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}

	parts := []*genai.Part{{Text: req.Prompt}}

	if req.ReferenceURL != "" {
		if part := g.prepareReferencePart(ctx, req.ReferenceURL); part != nil {
			parts = append(parts, part)
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Seed != nil {
		cfg.Seed = seedToPtrInt32(req.Seed)
	}
	if req.NumberOfImages > 0 {
		cfg.CandidateCount = int32(req.NumberOfImages)
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	// GenerateContent にはネガティブプロンプト相当のフィールドが無い
	if req.NegativePrompt != "" {
		slog.WarnContext(ctx, "Gemini 系モデルはネガティブプロンプトに対応していないため無視します",
			"model", req.Model)
	}

	slog.InfoContext(ctx, "Gemini に画像生成をリクエストします",
		"model", req.Model, "parts", len(parts))

	resp, err := g.models.GenerateContent(ctx, req.Model, []*genai.Content{{Parts: parts}}, cfg)
	if err != nil {
		return nil, wrapServiceError(err)
	}

	result, err := parseContentResponse(resp, dereferenceSeed(req.Seed))
	if err != nil {
		return nil, err
	}
	result.Model = req.Model

	slog.InfoContext(ctx, "画像を受信しました", "images", len(result.Images))
	return result, nil
}

// prepareReferencePart は参照画像を取得して InlineData パーツに変換します。
// 取得失敗は警告ログを残してテキストのみで続行します。
func (g *GeminiGenerator) prepareReferencePart(ctx context.Context, rawURL string) *genai.Part {
	if g.fetcher == nil {
		slog.WarnContext(ctx, "参照画像フェッチャーが未設定のため参照を無視します", "url", rawURL)
		return nil
	}

	data, err := g.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の読み込みに失敗しました。テキストのみで続行します", "url", rawURL, "error", err)
		return nil
	}
	return toPart(data)
}

// toPart はバイト列を genai.Part (InlineData) に変換します。
// 画像以外のデータは nil を返して添付を見送ります。
func toPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためパーツに変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseContentResponse は GenerateContent 応答から画像パーツをすべて抽出します。
func parseContentResponse(resp *genai.GenerateContentResponse, seed int64) (*domain.GenerationResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: 有効な応答がありませんでした", domain.ErrService)
	}

	// CandidateCount > 1 の場合、画像は候補ごとに分かれて返る
	var images []domain.GeneratedImage
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				images = append(images, domain.GeneratedImage{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				})
			}
		}
	}

	if len(images) == 0 {
		// 安全フィルター等によるブロックの確認
		first := resp.Candidates[0]
		if first.FinishReason != genai.FinishReasonUnspecified && first.FinishReason != genai.FinishReasonStop {
			return nil, fmt.Errorf("%w: 画像生成が異常終了しました (FinishReason: %s)", domain.ErrService, first.FinishReason)
		}
		return nil, fmt.Errorf("%w: 画像データが見つかりませんでした", domain.ErrService)
	}

	return &domain.GenerationResult{Images: images, UsedSeed: seed}, nil
}
