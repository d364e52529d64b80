// imagen-cli - プロンプトから Vertex AI で画像を生成するコマンドラインツール。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/imagen-cli/pkg/cli"
)

func main() {
	// Ctrl-C / SIGTERM で実行中のリクエストを中断できるようにする
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
