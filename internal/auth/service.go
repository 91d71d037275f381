// Package auth はGitHub OAuth認証フローとセッショントークン管理を提供する。
package auth

import (
	"context"
	"log/slog"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
	"github.com/senna-lang/photo-map-S3-app/internal/repository"
)

// Profile はOAuthプロバイダーから取得したユーザー情報を表す。
type Profile struct {
	ExternalID string // プロバイダー側の不変なアカウントID
	Login      string // ログイン名（GitHubのusername）
	AvatarURL  string // アバター画像URL（省略可）
	Name       string // 表示名（省略可）
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetAuthorizationURL はOAuth認証URLを生成する。
	GetAuthorizationURL(state string) string
	// ExchangeCodeForToken は認可コードをアクセストークンに交換する。
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
	// GetUserProfile はアクセストークンでユーザー情報を取得する。
	GetUserProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// SignInResult はサインイン成功時の結果。
type SignInResult struct {
	User      *domain.User
	Token     string
	IsNewUser bool
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	oauth    OAuthProvider
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewService はServiceを生成する。
func NewService(oauth OAuthProvider, userRepo repository.UserRepository, tokens *TokenService) *Service {
	return &Service{
		oauth:    oauth,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// GetAuthorizationURL はOAuth認証URLを生成する。
func (s *Service) GetAuthorizationURL(state string) string {
	return s.oauth.GetAuthorizationURL(state)
}

// SignIn は認可コードから検証済みアイデンティティを解決し、
// セッショントークンを発行する。処理は後戻りのない直列のパイプライン:
//
//	コード交換 → プロフィール取得 → ユーザーのupsert → トークン発行
//
// いずれかの段階の失敗は以降の段階を実行せずそのまま返す。
// ユーザーの保存後にトークン発行が失敗した場合、保存はロールバックしない
// （次回サインインで既存ユーザーとして解決される）。
func (s *Service) SignIn(ctx context.Context, code string) (*SignInResult, error) {
	// 1. 認可コードをアクセストークンに交換
	accessToken, err := s.oauth.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}

	// 2. プロフィールを取得
	profile, err := s.oauth.GetUserProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// 3. 外部IDでユーザーを解決し、作成または同期する
	user, isNewUser, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	// 4. セッショントークンを発行
	token, err := s.tokens.Issue(user.ID())
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		User:      user,
		Token:     token,
		IsNewUser: isNewUser,
	}, nil
}

// GetCurrentUser はセッショントークンから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	payload, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, payload.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("ユーザー", payload.UserID.String())
	}

	return user, nil
}

// VerifyToken はトークンを検証し、ユーザーIDを含むペイロードを返す。
// 認証ミドルウェアから利用される。
func (s *Service) VerifyToken(token string) (*TokenPayload, error) {
	return s.tokens.Verify(token)
}

// resolveUser は外部IDでの検索結果に応じてユーザーを作成または
// プロフィール同期し、永続化する。2番目の戻り値は新規作成されたかどうか。
func (s *Service) resolveUser(ctx context.Context, profile *Profile) (*domain.User, bool, error) {
	existing, err := s.userRepo.FindByGitHubID(ctx, profile.ExternalID)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		// 既存ユーザー: プロフィールを最新の値に同期する
		if err := existing.UpdateProfile(&profile.Login, &profile.AvatarURL, &profile.Name); err != nil {
			return nil, false, err
		}
		if err := s.userRepo.Save(ctx, existing); err != nil {
			return nil, false, err
		}

		slog.Info("existing user signed in",
			slog.String("user_id", existing.ID().String()),
			slog.String("username", existing.Username()),
		)
		return existing, false, nil
	}

	// 新規ユーザー
	user, err := domain.NewUser(profile.ExternalID, profile.Login, profile.AvatarURL, profile.Name)
	if err != nil {
		return nil, false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, false, err
	}

	slog.Info("new user created",
		slog.String("user_id", user.ID().String()),
		slog.String("username", user.Username()),
	)
	return user, true, nil
}
