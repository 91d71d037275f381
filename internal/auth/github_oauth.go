package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

const (
	defaultGitHubAuthURL  = "https://github.com/login/oauth/authorize"
	defaultGitHubTokenURL = "https://github.com/login/oauth/access_token"
	defaultGitHubUserURL  = "https://api.github.com/user"
)

// GitHubOAuthConfig はGitHub OAuthプロバイダーの設定。
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL  string
	TokenURL string
	UserURL  string
}

// GitHubOAuthProvider はGitHub OAuth 2.0による認証を提供する。
type GitHubOAuthProvider struct {
	config GitHubOAuthConfig
	client *http.Client
}

// NewGitHubOAuthProvider はGitHubOAuthProviderを生成する。
func NewGitHubOAuthProvider(config GitHubOAuthConfig) *GitHubOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGitHubAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGitHubTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultGitHubUserURL
	}
	return &GitHubOAuthProvider{
		config: config,
		client: http.DefaultClient,
	}
}

// GetAuthorizationURL はGitHub OAuthの認証URLを生成する。
// スコープにはread:userを含む。
func (p *GitHubOAuthProvider) GetAuthorizationURL(state string) string {
	params := url.Values{
		"client_id":    {p.config.ClientID},
		"redirect_uri": {p.config.RedirectURL},
		"scope":        {"read:user"},
	}
	if state != "" {
		params.Set("state", state)
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// githubTokenResponse はGitHubのトークンエンドポイントのレスポンス。
type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// githubUser はGitHubのユーザーエンドポイントのレスポンス。
// idは数値で返るため文字列化して扱う。
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
}

// ExchangeCodeForToken は認可コードをアクセストークンに交換する。
// 非2xx応答、またはレスポンスにトークンが含まれない場合はOAuthエラーを返す。
func (p *GitHubOAuthProvider) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", domain.NewOAuthError("トークンリクエストの作成に失敗しました", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", domain.NewOAuthError("トークンエンドポイントへのリクエストに失敗しました", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewOAuthError("トークンレスポンスの読み取りに失敗しました", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewOAuthError(
			fmt.Sprintf("トークン交換がステータス%dで失敗しました", resp.StatusCode), nil)
	}

	var tokenResp githubTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", domain.NewOAuthError("トークンレスポンスの解析に失敗しました", err)
	}

	if tokenResp.AccessToken == "" {
		return "", domain.NewOAuthError("レスポンスにアクセストークンが含まれていません", nil)
	}

	return tokenResp.AccessToken, nil
}

// GetUserProfile はアクセストークンでGitHubのユーザー情報を取得する。
// 必須フィールド（id、login）を欠くレスポンスはOAuthエラーを返す。
func (p *GitHubOAuthProvider) GetUserProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserURL, nil)
	if err != nil {
		return nil, domain.NewOAuthError("ユーザー情報リクエストの作成に失敗しました", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.NewOAuthError("ユーザー情報エンドポイントへのリクエストに失敗しました", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewOAuthError("ユーザー情報レスポンスの読み取りに失敗しました", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewOAuthError(
			fmt.Sprintf("ユーザー情報の取得がステータス%dで失敗しました", resp.StatusCode), nil)
	}

	var user githubUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, domain.NewOAuthError("ユーザー情報レスポンスの解析に失敗しました", err)
	}

	if user.ID == 0 || user.Login == "" {
		return nil, domain.NewOAuthError("ユーザー情報に必須フィールドが含まれていません", nil)
	}

	return &Profile{
		ExternalID: fmt.Sprintf("%d", user.ID),
		Login:      user.Login,
		AvatarURL:  user.AvatarURL,
		Name:       user.Name,
	}, nil
}

// compile-time interface check
var _ OAuthProvider = (*GitHubOAuthProvider)(nil)
