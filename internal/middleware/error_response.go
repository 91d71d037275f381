package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, domainErr *domain.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Kind:    string(domainErr.Kind),
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &domain.DomainError{
		Kind:    domain.KindRepository,
		Code:    "INTERNAL_ERROR",
		Message: "内部エラーが発生しました",
	})
}

// HTTPStatusFromKind はエラー種別をHTTPステータスコードにマッピングする。
//
//	validation   → 400 Bad Request
//	token        → 401 Unauthorized
//	unauthorized → 403 Forbidden（認証済みだが権限がない）
//	not_found    → 404 Not Found
//	oauth        → 502 Bad Gateway（外部プロバイダーの失敗）
//	repository   → 500 Internal Server Error
func HTTPStatusFromKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindToken:
		return http.StatusUnauthorized
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindOAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
