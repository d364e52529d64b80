package output

import (
	"fmt"
	"time"

	"github.com/shouni/imagen-cli/pkg/imgutil"
)

// FileName は衝突を避けるためタイムスタンプと連番を含むファイル名を生成します。
// 形式: imagen_{slug}_{unix}_{index}{ext}
func FileName(slug string, ts time.Time, index int, mimeType string) string {
	return fmt.Sprintf("imagen_%s_%d_%02d%s", slug, ts.Unix(), index, imgutil.ExtensionForMIME(mimeType))
}
