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

// ImagenGenerator は Imagen 系モデルによる画像生成を担当します。
// 1回の要求につき1回だけ GenerateImages を呼び、再試行はしません。
type ImagenGenerator struct {
	models ImagenModel
}

// NewImagenGenerator は通信クライアントを注入して ImagenGenerator を初期化します。
func NewImagenGenerator(models ImagenModel) (*ImagenGenerator, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ImagenModel) is required")
	}
	return &ImagenGenerator{models: models}, nil
}

// Generate はプロンプトを検証し、Imagen API に1回の生成要求を送ります。
func (g *ImagenGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages:   int32(req.NumberOfImages),
		IncludeRAIReason: true,
	}
	if cfg.NumberOfImages <= 0 {
		cfg.NumberOfImages = 1
	}
	if req.AspectRatio != "" {
		cfg.AspectRatio = req.AspectRatio
	}
	if req.NegativePrompt != "" {
		cfg.NegativePrompt = req.NegativePrompt
	}
	if req.Seed != nil {
		cfg.Seed = seedToPtrInt32(req.Seed)
	}

	slog.InfoContext(ctx, "Imagen に画像生成をリクエストします",
		"model", req.Model, "count", cfg.NumberOfImages, "aspect_ratio", cfg.AspectRatio)

	resp, err := g.models.GenerateImages(ctx, req.Model, req.Prompt, cfg)
	if err != nil {
		return nil, wrapServiceError(err)
	}

	result, err := parseImagenResponse(resp, dereferenceSeed(req.Seed))
	if err != nil {
		return nil, err
	}
	result.Model = req.Model

	slog.InfoContext(ctx, "画像を受信しました", "images", len(result.Images))
	return result, nil
}

// parseImagenResponse は応答から画像バイナリを抽出してドメインモデルへ変換します。
// 全件が安全フィルターでブロックされていた場合は理由付きでエラーを返します。
func parseImagenResponse(resp *genai.GenerateImagesResponse, seed int64) (*domain.GenerationResult, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: 応答に画像が含まれていません", domain.ErrService)
	}

	images := make([]domain.GeneratedImage, 0, len(resp.GeneratedImages))
	var filteredReasons []string

	for _, gi := range resp.GeneratedImages {
		if gi == nil {
			continue
		}
		if gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			if gi.RAIFilteredReason != "" {
				filteredReasons = append(filteredReasons, gi.RAIFilteredReason)
			}
			continue
		}

		mimeType := gi.Image.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(gi.Image.ImageBytes)
		}
		images = append(images, domain.GeneratedImage{
			Data:     gi.Image.ImageBytes,
			MimeType: mimeType,
		})
	}

	if len(images) == 0 {
		if len(filteredReasons) > 0 {
			return nil, fmt.Errorf("%w: 安全フィルターによりブロックされました (%s)", domain.ErrService, strings.Join(filteredReasons, "; "))
		}
		return nil, fmt.Errorf("%w: 画像データが見つかりませんでした", domain.ErrService)
	}

	if len(filteredReasons) > 0 {
		slog.Warn("一部の画像が安全フィルターでブロックされました", "reasons", filteredReasons)
	}

	return &domain.GenerationResult{Images: images, UsedSeed: seed}, nil
}
