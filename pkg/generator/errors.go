package generator

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/shouni/imagen-cli/pkg/domain"
)

// wrapServiceError はリモート API のエラーを分類エラーへ対応付けます。
// 再試行はしない方針のため、サービス側のメッセージをそのまま伝えます。
func wrapServiceError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s (code=%d)", domain.ErrAuthentication, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("%w: %s (code=%d)", domain.ErrService, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%w: %v", domain.ErrService, err)
}

// validatePrompt はネットワーク呼び出し前のプロンプト検証です。
// 空白のみのプロンプトもここで弾きます。
func validatePrompt(prompt string) error {
	if isBlank(prompt) {
		return fmt.Errorf("%w: プロンプトが空です", domain.ErrValidation)
	}
	return nil
}
