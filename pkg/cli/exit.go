package cli

import (
	"errors"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// 終了コードの定義。スクリプトから失敗段階を判別できるよう、
// エラー分類ごとに固定のコードを割り当てています。
const (
	ExitOK            = 0
	ExitGeneric       = 1
	ExitValidation    = 2
	ExitConfiguration = 3
	ExitService       = 4
	ExitFilesystem    = 5
)

// ExitCode はエラーの分類を終了コードへ対応付けます。
// 認証と設定の欠落はどちらも実行前提の不備としてコード3に揃えています。
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrValidation):
		return ExitValidation
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrAuthentication):
		return ExitConfiguration
	case errors.Is(err, domain.ErrService):
		return ExitService
	case errors.Is(err, domain.ErrFilesystem):
		return ExitFilesystem
	default:
		return ExitGeneric
	}
}
