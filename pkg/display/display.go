package display

import (
	"os"
	"runtime"

	"github.com/pkg/browser"
)

// Displayer は生成画像の表示機能を抽象化するインターフェースです。
// 表示はあくまで付加機能であり、失敗してもパイプラインを失敗させない前提で
// 呼び出し側が扱います。
type Displayer interface {
	Show(path string) error
}

// BrowserDisplayer は OS 既定のビューアー（ブラウザ）で画像を開きます。
type BrowserDisplayer struct{}

// Show は指定されたファイルを既定のアプリケーションで開きます。
func (BrowserDisplayer) Show(path string) error {
	return browser.OpenFile(path)
}

// NopDisplayer は何も表示しない実装です。ヘッドレス環境や --no-display 指定時に使います。
type NopDisplayer struct{}

// Show は常に nil を返します。
func (NopDisplayer) Show(string) error {
	return nil
}

// ForEnv は実行環境に応じた Displayer を返します。
// 表示抑止の指定がある場合と、表示先を持たない Linux 環境では NopDisplayer になります。
func ForEnv(noDisplay bool) Displayer {
	if noDisplay {
		return NopDisplayer{}
	}
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return NopDisplayer{}
	}
	return BrowserDisplayer{}
}
