package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// TokenConfig は署名付きセッショントークンの設定。
type TokenConfig struct {
	Secret   []byte        // HMAC署名の共有シークレット
	Expiry   time.Duration // トークンの有効期間
	Issuer   string        // issクレーム（デプロイ単位で固定）
	Audience string        // audクレーム（デプロイ単位で固定）
}

// TokenPayload は検証済みトークンから取り出したクレーム。
type TokenPayload struct {
	UserID    domain.UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims はセッショントークンのJWTクレーム構造。
// アプリケーション固有のクレームはuserIdのみ。
type sessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService はステートレスなセッショントークンの発行と検証を提供する。
// トークンの失効リストは持たず、有効期限のみで無効化する。
type TokenService struct {
	config TokenConfig
	now    func() time.Time // テスト用にオーバーライド可能
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{
		config: config,
		now:    time.Now,
	}
}

// Issue は指定ユーザーIDを唯一のアプリケーションクレームとして持つ
// HS256署名付きトークンを発行する。
func (s *TokenService) Issue(userID domain.UserID) (string, error) {
	now := s.now()
	claims := sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", domain.NewTokenError("トークンの署名に失敗しました", err)
	}
	return signed, nil
}

// Verify はトークンの署名・発行者・対象者・有効期限を一括で検証する。
// 失敗理由（署名不正・期限切れ・形式不正・クレーム欠落）は区別せず、
// すべて同一のトークンエラーとして返す。
func (s *TokenService) Verify(tokenString string) (*TokenPayload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims sessionClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, domain.NewTokenError("トークンの検証に失敗しました", err)
	}

	userID, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return nil, domain.NewTokenError("トークンの検証に失敗しました", err)
	}

	payload := &TokenPayload{UserID: userID}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload, nil
}
