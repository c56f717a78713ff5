package public

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sngm3741/coffee-hunter/api/internal/interfaces/http/common"
)

// decodeJSONBody はサイズ上限付きでリクエストボディを読み込み、未知のフィールドを拒否する。
func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("リクエストの形式が不正です: %w", err)
	}
	return nil
}
