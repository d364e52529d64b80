package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shouni/imagen-cli/pkg/config"
	"github.com/shouni/imagen-cli/pkg/display"
	"github.com/shouni/imagen-cli/pkg/domain"
	"github.com/shouni/imagen-cli/pkg/generator"
	"github.com/shouni/imagen-cli/pkg/output"
	"github.com/shouni/imagen-cli/pkg/utils"
)

// promptSlugMaxLen はファイル名に使うプロンプト接頭辞の最大文字数です。
const promptSlugMaxLen = 30

type rootOptions struct {
	cfg    config.Config
	prompt string
	seed   int64
}

// Execute はルートコマンドを組み立てて実行します。
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "imagen-cli",
		Short: "プロンプトから画像を生成するコマンドラインツール",
		Long: `imagen-cli は Vertex AI の画像生成モデル（Imagen / Gemini）にプロンプトを送り、
生成された画像をローカルまたは GCS に保存するワンショットの CLI です。

Examples:
  imagen-cli --prompt "A red bicycle on a cobblestone street"
  imagen-cli --prompt "夕焼けの港町" --count 2 --aspect-ratio 16:9 --output-dir ./out
  imagen-cli --prompt "..." --model gemini-2.5-flash-image --reference gs://bucket/ref.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				opts.cfg.Seed = &opts.seed
			}
			return opts.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.prompt, "prompt", "", "画像生成プロンプト（未指定なら対話的に入力）")
	f.StringVar(&opts.cfg.Project, "project", "", "Google Cloud プロジェクトID（既定: 環境変数 "+config.EnvProject+"）")
	f.StringVar(&opts.cfg.Location, "location", config.DefaultLocation, "Vertex AI リージョン")
	f.StringVar(&opts.cfg.OutputDir, "output-dir", ".", "保存先ディレクトリ（gs://bucket/prefix も可）")
	f.StringVar(&opts.cfg.Model, "model", config.DefaultModel, "生成モデル名")
	f.IntVar(&opts.cfg.Count, "count", 1, "生成枚数 (1-"+fmt.Sprint(config.MaxImages)+")")
	f.StringVar(&opts.cfg.AspectRatio, "aspect-ratio", config.DefaultAspectRatio, "アスペクト比 (1:1, 16:9, 9:16 など)")
	f.StringVar(&opts.cfg.NegativePrompt, "negative-prompt", "", "ネガティブプロンプト")
	f.Int64Var(&opts.seed, "seed", 0, "シード値（未指定ならランダム）")
	f.StringVar(&opts.cfg.Reference, "reference", "", "参照画像URL（Gemini系モデルのみ、http(s) または gs://）")
	f.BoolVar(&opts.cfg.NoDisplay, "no-display", false, "生成後に画像を開かない")
	f.BoolVar(&opts.cfg.Verbose, "verbose", false, "デバッグログを出力する")

	return cmd
}

// run はパイプライン本体です。
// 設定解決 → プロンプト確定 → クライアント生成 → 生成要求 → 保存 → 表示、の
// 直列フローで、各段階の失敗はそのまま分類エラーとして上へ返します。
func (o *rootOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	// Resolve 内のデバッグログを拾えるよう、ロガーは設定解決より先に構成する
	setupLogger(o.cfg.Verbose)

	cfg, err := config.Resolve(o.cfg)
	if err != nil {
		return err
	}

	// ネットワーク呼び出しの前にプロンプトを確定・検証する
	prompt := strings.TrimSpace(o.prompt)
	if prompt == "" {
		prompt, err = readPromptInteractive(cmd)
		if err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "画像生成を開始します",
		"prompt", utils.TruncateForLog(prompt, 80),
		"model", cfg.Model, "project", cfg.Project, "location", cfg.Location)

	writer, err := output.NewWriter(ctx, cfg.OutputDir)
	if err != nil {
		return err
	}

	client, err := generator.NewVertexClient(ctx, cfg.Project, cfg.Location)
	if err != nil {
		return err
	}

	fetcher, err := newReferenceFetcher(ctx, cfg.Reference)
	if err != nil {
		return err
	}
	gen, err := generator.NewForModel(client, cfg.Model, fetcher)
	if err != nil {
		return err
	}

	result, err := gen.Generate(ctx, domain.GenerationRequest{
		Prompt:         prompt,
		Model:          cfg.Model,
		NumberOfImages: cfg.Count,
		AspectRatio:    cfg.AspectRatio,
		NegativePrompt: cfg.NegativePrompt,
		ReferenceURL:   cfg.Reference,
		Seed:           cfg.Seed,
	})
	if err != nil {
		return err
	}

	paths, err := writer.Write(ctx, result, utils.PromptSlug(prompt, promptSlugMaxLen))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	showFirst(ctx, cfg.NoDisplay, paths)
	return nil
}

// newReferenceFetcher は参照画像用の Fetcher を組み立てます。
// 参照が gs:// の場合のみ GCS クライアントを初期化します。
func newReferenceFetcher(ctx context.Context, reference string) (*generator.Fetcher, error) {
	var gcsClient *storage.Client
	if strings.HasPrefix(reference, "gs://") {
		var err error
		gcsClient, err = storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: GCSクライアントを初期化できませんでした: %v", domain.ErrAuthentication, err)
		}
	}
	return generator.NewFetcher(nil, gcsClient), nil
}

// readPromptInteractive は標準入力が端末の場合のみプロンプトを対話取得します。
// 非対話環境では --prompt 必須として ErrValidation を返します。
func readPromptInteractive(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%w: プロンプトが指定されていません (--prompt で指定してください)", domain.ErrValidation)
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Enter your image prompt: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: プロンプトを読み取れませんでした: %v", domain.ErrValidation, err)
	}

	prompt := strings.TrimSpace(line)
	if prompt == "" {
		return "", fmt.Errorf("%w: プロンプトが空です", domain.ErrValidation)
	}
	return prompt, nil
}

// showFirst は先頭の画像だけを表示します（保存は全件、表示は1件の方針）。
// 表示失敗は警告ログのみで処理を継続します。
func showFirst(ctx context.Context, noDisplay bool, paths []string) {
	if len(paths) == 0 || strings.HasPrefix(paths[0], "gs://") {
		return
	}

	d := display.ForEnv(noDisplay)
	if err := d.Show(paths[0]); err != nil {
		slog.WarnContext(ctx, "画像の表示に失敗しました。保存自体は完了しています", "path", paths[0], "error", err)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
