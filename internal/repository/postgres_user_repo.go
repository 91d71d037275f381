package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Save はユーザーをUPSERTで保存する。
// 既存IDの場合はプロフィール項目と更新日時のみ上書きする
// （github_idとcreated_atは不変）。
func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, github_id, username, avatar_url, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   username = EXCLUDED.username,
		   avatar_url = EXCLUDED.avatar_url,
		   name = EXCLUDED.name,
		   updated_at = EXCLUDED.updated_at`,
		user.ID().String(),
		user.GitHubID(),
		user.Username(),
		nullableString(user.AvatarURL()),
		nullableString(user.Name()),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	if err != nil {
		return domain.NewRepositoryError("ユーザーの保存に失敗しました", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT id, github_id, username, avatar_url, name, created_at, updated_at
		 FROM users WHERE id = $1`,
		id.String(),
	)
}

// FindByGitHubID はGitHub IDでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByGitHubID(ctx context.Context, githubID string) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT id, github_id, username, avatar_url, name, created_at, updated_at
		 FROM users WHERE github_id = $1`,
		githubID,
	)
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT id, github_id, username, avatar_url, name, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	)
}

// findOne は単一ユーザーを取得する共通処理。
func (r *PostgresUserRepo) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		rawID     string
		githubID  string
		username  string
		avatarURL sql.NullString
		name      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&rawID, &githubID, &username, &avatarURL, &name, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewRepositoryError("ユーザーの取得に失敗しました", err)
	}

	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, domain.NewRepositoryError("保存されていたユーザーIDが不正です", err)
	}

	return domain.ReconstructUser(
		id, githubID, username, avatarURL.String, name.String, createdAt, updatedAt,
	), nil
}

// nullableString は空文字列をNULLに変換する。
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
