package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/shouni/imagen-cli/pkg/domain"
)

func TestNewImagenGenerator(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返す", func(t *testing.T) {
		_, err := NewImagenGenerator(nil)
		assert.Error(t, err)
	})
}

func TestImagenGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: プロンプトと生成パラメータがAPIにそのまま渡される", func(t *testing.T) {
		var seedVal int64 = 777
		req := domain.GenerationRequest{
			Prompt:         "石畳の道に置かれた赤い自転車",
			Model:          "imagen-4.0-generate-preview-05-20",
			NumberOfImages: 2,
			AspectRatio:    "16:9",
			NegativePrompt: "blurry",
			Seed:           &seedVal,
		}

		m := &mockImagenModel{}
		gen, err := NewImagenGenerator(m)
		require.NoError(t, err)

		result, err := gen.Generate(ctx, req)

		require.NoError(t, err)
		assert.True(t, m.called)
		assert.Equal(t, req.Model, m.lastModel)
		assert.Equal(t, req.Prompt, m.lastPrompt)
		require.NotNil(t, m.lastConfig)
		assert.Equal(t, int32(2), m.lastConfig.NumberOfImages)
		assert.Equal(t, "16:9", m.lastConfig.AspectRatio)
		assert.Equal(t, "blurry", m.lastConfig.NegativePrompt)
		require.NotNil(t, m.lastConfig.Seed)
		assert.Equal(t, int32(777), *m.lastConfig.Seed)

		require.Len(t, result.Images, 1)
		assert.Equal(t, []byte("fake-png"), result.Images[0].Data)
		assert.Equal(t, "image/png", result.Images[0].MimeType)
		assert.Equal(t, seedVal, result.UsedSeed)
	})

	t.Run("検証: 空白のみのプロンプトはAPI呼び出し前に拒否される", func(t *testing.T) {
		m := &mockImagenModel{}
		gen, _ := NewImagenGenerator(m)

		_, err := gen.Generate(ctx, domain.GenerationRequest{Prompt: "   \t\n"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.False(t, m.called, "ネットワーク呼び出しは発生してはいけません")
	})

	t.Run("失敗: APIエラーはサービスのメッセージごとErrServiceに分類される", func(t *testing.T) {
		m := &mockImagenModel{
			generateFunc: func(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
				return nil, genai.APIError{Code: 429, Message: "Quota exceeded for model"}
			},
		}
		gen, _ := NewImagenGenerator(m)

		_, err := gen.Generate(ctx, domain.GenerationRequest{Prompt: "夕焼けの港町"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrService))
		assert.Contains(t, err.Error(), "Quota exceeded")
	})

	t.Run("失敗: 権限エラーはErrAuthenticationに分類される", func(t *testing.T) {
		m := &mockImagenModel{
			generateFunc: func(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
				return nil, genai.APIError{Code: 403, Message: "Permission denied"}
			},
		}
		gen, _ := NewImagenGenerator(m)

		_, err := gen.Generate(ctx, domain.GenerationRequest{Prompt: "夕焼けの港町"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAuthentication))
	})

	t.Run("枚数未指定の場合は1枚として送信される", func(t *testing.T) {
		m := &mockImagenModel{}
		gen, _ := NewImagenGenerator(m)

		_, err := gen.Generate(ctx, domain.GenerationRequest{Prompt: "森の中の小屋"})

		require.NoError(t, err)
		assert.Equal(t, int32(1), m.lastConfig.NumberOfImages)
		assert.Nil(t, m.lastConfig.Seed)
	})
}

func TestParseImagenResponse(t *testing.T) {
	t.Run("複数枚の応答をすべて取り込む", func(t *testing.T) {
		resp := &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{Image: &genai.Image{ImageBytes: []byte("img-0"), MIMEType: "image/png"}},
				{Image: &genai.Image{ImageBytes: []byte("img-1"), MIMEType: "image/png"}},
			},
		}

		result, err := parseImagenResponse(resp, 0)

		require.NoError(t, err)
		require.Len(t, result.Images, 2)
		assert.Equal(t, []byte("img-1"), result.Images[1].Data)
	})

	t.Run("全件が安全フィルターでブロックされた場合は理由付きで失敗する", func(t *testing.T) {
		resp := &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{RAIFilteredReason: "safety policy violation"},
			},
		}

		_, err := parseImagenResponse(resp, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrService))
		assert.Contains(t, err.Error(), "safety policy violation")
	})

	t.Run("空の応答はErrServiceになる", func(t *testing.T) {
		_, err := parseImagenResponse(&genai.GenerateImagesResponse{}, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrService))
	})

	t.Run("一部ブロックでも残りの画像は返される", func(t *testing.T) {
		resp := &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{RAIFilteredReason: "blocked"},
				{Image: &genai.Image{ImageBytes: []byte("ok"), MIMEType: "image/png"}},
			},
		}

		result, err := parseImagenResponse(resp, 5)

		require.NoError(t, err)
		require.Len(t, result.Images, 1)
		assert.Equal(t, int64(5), result.UsedSeed)
	})
}
