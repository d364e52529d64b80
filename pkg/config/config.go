package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/joho/godotenv"

	"github.com/shouni/imagen-cli/pkg/domain"
)

const (
	// DefaultLocation は既定の Vertex AI デプロイリージョンです。
	DefaultLocation = "us-central1"
	// DefaultModel は既定の生成モデルです。
	DefaultModel = "imagen-4.0-generate-preview-05-20"
	// DefaultAspectRatio は既定のアスペクト比です。
	DefaultAspectRatio = "1:1"
	// EnvProject は --project 未指定時に参照する環境変数名です。
	EnvProject = "GOOGLE_CLOUD_PROJECT"
	// MaxImages は1回の要求で生成できる最大枚数です（Imagen API の上限）。
	MaxImages = 4
)

// Config は CLI 全体の実行時設定です。
// フラグ入力がそのまま入り、Resolve で環境変数と既定値が補完されます。
type Config struct {
	Project        string
	Location       string
	Model          string
	OutputDir      string
	Count          int
	AspectRatio    string
	NegativePrompt string
	Reference      string
	Seed           *int64
	NoDisplay      bool
	Verbose        bool
}

// Resolve はフラグ入力に .env / 環境変数 / 既定値を重ねて最終設定を返します。
// 優先順位: フラグ > 環境変数 > 既定値。プロジェクトIDがどこにも無い場合は
// ネットワーク呼び出し前に ErrConfiguration で失敗します。
func Resolve(in Config) (*Config, error) {
	// .env があれば読み込む。無いのは通常運用なのでエラーにはしない
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env を読み込みました")
	}

	cfg := in

	if cfg.Project == "" {
		cfg.Project = os.Getenv(EnvProject)
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("%w: プロジェクトIDが未指定です。--project または環境変数 %s で指定してください", domain.ErrConfiguration, EnvProject)
	}

	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = DefaultAspectRatio
	}

	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.Count > MaxImages {
		return nil, fmt.Errorf("%w: 生成枚数は %d 以下で指定してください (指定値: %d)", domain.ErrValidation, MaxImages, cfg.Count)
	}

	// API のシードは int32 のため、範囲外は黙って切り詰めずにここで拒否する
	if cfg.Seed != nil && (*cfg.Seed > math.MaxInt32 || *cfg.Seed < math.MinInt32) {
		return nil, fmt.Errorf("%w: シード値は %d から %d の範囲で指定してください (指定値: %d)",
			domain.ErrValidation, math.MinInt32, math.MaxInt32, *cfg.Seed)
	}

	return &cfg, nil
}
