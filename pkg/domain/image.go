package domain

// GenerationRequest は1回の画像生成要求です。
// プロセス起動時に CLI 入力から一度だけ組み立てられ、生成パイプラインに
// そのまま渡されます。途中で変更されることはありません。
type GenerationRequest struct {
	Prompt         string
	Model          string
	NumberOfImages int
	AspectRatio    string
	NegativePrompt string
	ReferenceURL   string // Gemini 系モデルのみ利用。http(s) または gs:// URI
	Seed           *int64 // nil でランダム、値指定で固定。SDK 側で int32 に変換します
}

// GeneratedImage は生成された1枚の画像データとそのメタデータです。
type GeneratedImage struct {
	Data     []byte
	MimeType string
}

// GenerationResult は生成サービスからの応答全体です。
// 複数枚の応答をすべて保持し、保存は全件・表示は先頭のみが既定の方針です。
type GenerationResult struct {
	Images   []GeneratedImage
	Model    string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}
