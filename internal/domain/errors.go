// Package domain は写真マップのドメインモデルを定義する。
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind はドメインエラーの種別を表す。
// トランスポート層がHTTPステータスコードへのマッピングに使用する。
type ErrorKind string

const (
	// KindValidation は入力値または不変条件の違反。呼び出し側の修正で回復可能。
	KindValidation ErrorKind = "validation"
	// KindUnauthorized は認証済みだが許可されていない操作（所有者不一致）。
	KindUnauthorized ErrorKind = "unauthorized"
	// KindNotFound は参照されたエンティティが存在しない。
	KindNotFound ErrorKind = "not_found"
	// KindOAuth は外部OAuthプロバイダーとの通信・応答の失敗。
	KindOAuth ErrorKind = "oauth"
	// KindToken はトークンの署名・検証の失敗。
	KindToken ErrorKind = "token"
	// KindRepository は永続化層の失敗。原因はラップして保持する。
	KindRepository ErrorKind = "repository"
)

// DomainError は統一エラーフォーマットを表す。
// すべての期待される失敗はこの型で返し、panicや例外は使用しない。
type DomainError struct {
	Kind    ErrorKind // エラー種別
	Code    string    // エラーコード
	Message string    // エラーメッセージ
	cause   error     // ラップされた原因（省略可）
}

// Error はerrorインターフェースを実装する。
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap はラップされた原因エラーを返す。
func (e *DomainError) Unwrap() error {
	return e.cause
}

// 定義済みエラーコード
const (
	ErrCodeCoordinateOutOfBounds = "COORDINATE_OUT_OF_BOUNDS"
	ErrCodeInvalidImageURL       = "INVALID_IMAGE_URL"
	ErrCodeInvalidID             = "INVALID_ID"
	ErrCodeAlbumValidation       = "ALBUM_VALIDATION"
	ErrCodeUserValidation        = "USER_VALIDATION"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeOAuthFailed           = "OAUTH_FAILED"
	ErrCodeTokenInvalid          = "TOKEN_INVALID"
	ErrCodeRepositoryFailed      = "REPOSITORY_FAILED"
)

// NewCoordinateOutOfBoundsError は座標の範囲外エラーを生成する。
// axisには"latitude"または"longitude"を指定する。
func NewCoordinateOutOfBoundsError(axis string, value, min, max float64) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeCoordinateOutOfBounds,
		Message: fmt.Sprintf("%sが範囲外です: %g（有効範囲: %g〜%g）", axis, value, min, max),
	}
}

// NewInvalidImageURLError は画像URL形式エラーを生成する。
func NewInvalidImageURLError(raw, reason string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeInvalidImageURL,
		Message: fmt.Sprintf("無効な画像URLです: %s（%s）", raw, reason),
	}
}

// NewInvalidIDError はID形式エラーを生成する。
func NewInvalidIDError(kind, raw string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeInvalidID,
		Message: fmt.Sprintf("無効な%sです: UUID形式ではありません: %s", kind, raw),
	}
}

// NewAlbumValidationError はアルバムの不変条件違反エラーを生成する。
func NewAlbumValidationError(message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeAlbumValidation,
		Message: message,
	}
}

// NewUserValidationError はユーザーの不変条件違反エラーを生成する。
func NewUserValidationError(message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeUserValidation,
		Message: message,
	}
}

// NewUnauthorizedError は所有者不一致による権限エラーを生成する。
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Kind:    KindUnauthorized,
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewNotFoundError はエンティティ未検出エラーを生成する。
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%sが見つかりません: %s", entity, id),
	}
}

// NewOAuthError はOAuthプロバイダーとのやり取りの失敗エラーを生成する。
func NewOAuthError(message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindOAuth,
		Code:    ErrCodeOAuthFailed,
		Message: message,
		cause:   cause,
	}
}

// NewTokenError はトークンの発行・検証の失敗エラーを生成する。
// 検証失敗の詳細（期限切れ・署名不正など）は区別せず、この1種類に集約する。
func NewTokenError(message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindToken,
		Code:    ErrCodeTokenInvalid,
		Message: message,
		cause:   cause,
	}
}

// NewRepositoryError は永続化層の失敗エラーを生成する。
func NewRepositoryError(message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindRepository,
		Code:    ErrCodeRepositoryFailed,
		Message: message,
		cause:   cause,
	}
}

// KindOf はエラーからErrorKindを取り出す。
// DomainErrorでない場合はKindRepositoryとして扱う。
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindRepository
}
