package generator

import (
	"context"

	"google.golang.org/genai"
)

// --- Mocks ---

type mockImagenModel struct {
	called     bool
	lastModel  string
	lastPrompt string
	lastConfig *genai.GenerateImagesConfig

	generateFunc func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

func (m *mockImagenModel) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	m.called = true
	m.lastModel = model
	m.lastPrompt = prompt
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, prompt, config)
	}
	return imagenResponseWith([]byte("fake-png"), "image/png"), nil
}

type mockGenerativeModel struct {
	called       bool
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig

	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGenerativeModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.called = true
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, config)
	}
	return contentResponseWith([]byte("fake-png"), "image/png"), nil
}

type mockFetcher struct {
	called  bool
	lastURL string
	data    []byte
	err     error
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	m.called = true
	m.lastURL = rawURL
	return m.data, m.err
}

// --- Response builders ---

func imagenResponseWith(data []byte, mimeType string) *genai.GenerateImagesResponse {
	return &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: data, MIMEType: mimeType}},
		},
	}
}

func contentResponseWith(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
		}},
	}
}
