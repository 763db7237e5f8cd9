package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/userdir/internal/middleware"
	"github.com/hitoshi/userdir/internal/model"
)

// writeAPIError はクライアントの要求形式に合わせてエラーレスポンスを書き込む。
// JSONクライアントには統一エラーフォーマット、それ以外にはエラーページを返す。
func writeAPIError(w http.ResponseWriter, r *http.Request, statusCode int, apiErr *model.APIError) {
	if wantsJSON(r) {
		middleware.WriteErrorResponse(w, statusCode, apiErr)
		return
	}
	render(w, r, statusCode, viewError, pageData{
		Title: http.StatusText(statusCode),
		Error: apiErr,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIError(w, r, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	writeAPIError(w, r, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// newUnknownUserPathError はURLのIDが整数として解釈できない場合のエラーを生成する。
// 該当するユーザーは存在し得ないため未検出として扱う。
func newUnknownUserPathError(raw string) *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", raw),
		Category: "user",
		Action:   "ユーザー一覧からIDを確認してください。",
	}
}
