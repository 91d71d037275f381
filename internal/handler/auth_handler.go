// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/senna-lang/photo-map-S3-app/internal/auth"
	"github.com/senna-lang/photo-map-S3-app/internal/domain"
	"github.com/senna-lang/photo-map-S3-app/internal/metrics"
	"github.com/senna-lang/photo-map-S3-app/internal/middleware"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetAuthorizationURL(state string) string
	SignIn(ctx context.Context, code string) (*auth.SignInResult, error)
	GetCurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	// FrontendURL はOAuthコールバック後のリダイレクト先。
	FrontendURL  string
	CookieSecure bool
}

// AuthHandler はGitHub OAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: collector,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// signInResponse はサインイン成功時のAPIレスポンス。
type signInResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	IsNewUser bool         `json:"isNewUser"`
}

// Login はGitHub OAuthフローを開始する。
// GET /auth/github/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetAuthorizationURL(state), http.StatusTemporaryRedirect)
}

// Callback はGitHubからのOAuthコールバックを処理する。
// サインイン完了後、トークンをフラグメントに載せてフロントエンドへリダイレクトする。
// GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch", slog.String("query_state", state))
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewOAuthError("stateパラメータが不正です", nil))
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewOAuthError("認可コードがありません", nil))
		return
	}

	// 3. サインイン処理
	result, err := h.service.SignIn(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordSignIn(result.IsNewUser)

	// 4. トークンをURLフラグメントに載せてフロントエンドへリダイレクト
	// （フラグメントはサーバーへ送信されないためログに残らない）
	redirect := strings.TrimSuffix(h.config.FrontendURL, "/") +
		"/#token=" + url.QueryEscape(result.Token)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// SignIn は認可コードを受け取りサインインを完了する。
// フロントエンドが自前でコールバックを受けるSPAフロー用。
// POST /auth/signin {"code": "xxx"}
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewOAuthError("リクエストボディの解析に失敗しました", err))
		return
	}
	if req.Code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			domain.NewOAuthError("認可コードがありません", nil))
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Code)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordSignIn(result.IsNewUser)

	writeJSON(w, http.StatusOK, signInResponse{
		User:      toUserResponse(result.User),
		Token:     result.Token,
		IsNewUser: result.IsNewUser,
	})
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me（Authorization: Bearer <token>）
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerTokenFromRequest(r)
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized,
			domain.NewTokenError("認証が必要です", nil))
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// toUserResponse はユーザーエンティティをAPIレスポンスに変換する。
func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:          user.ID().String(),
		Username:    user.Username(),
		AvatarURL:   user.AvatarURL(),
		Name:        user.Name(),
		DisplayName: user.DisplayName(),
		CreatedAt:   user.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt().Format(time.RFC3339),
	}
}

// bearerTokenFromRequest はAuthorizationヘッダーからBearerトークンを取り出す。
func bearerTokenFromRequest(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
