package utils

import (
	"strings"
	"unicode"
)

// PromptSlug はプロンプトからファイル名に安全な接頭辞を生成します。
// 英数字以外の文字は "_" に置換し、先頭 maxLen 文字に切り詰めます。
// 置換後に意味のある文字が残らない場合は "image" を返します。
func PromptSlug(prompt string, maxLen int) string {
	runes := []rune(prompt)
	if maxLen > 0 && len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	var b strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	slug := b.String()
	if strings.Trim(slug, "_") == "" {
		return "image"
	}
	return slug
}

// TruncateForLog は長い文字列（base64 データ等）をログ用に切り詰めます。
func TruncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
