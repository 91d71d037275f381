// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// AlbumRepository はアルバムデータの永続化インターフェース。
// 1回のメソッド呼び出しが1つの原子的な読み書き単位に対応する。
// 同一アルバムへの並行書き込みの調停（last-writer-wins）は実装側の責務。
type AlbumRepository interface {
	// Save はアルバムを保存する。既存IDの場合は上書き更新する。
	Save(ctx context.Context, album *domain.Album) error

	// FindByID は指定IDのアルバムを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id domain.AlbumID) (*domain.Album, error)

	// FindByOwnerID は指定ユーザーが所有するアルバム一覧を作成日時の降順で返す。
	FindByOwnerID(ctx context.Context, ownerID domain.UserID) ([]*domain.Album, error)

	// FindAll は全アルバムを作成日時の降順で返す。
	FindAll(ctx context.Context) ([]*domain.Album, error)

	// Delete は指定IDのアルバムを削除する。存在しない場合はNotFoundエラーを返す。
	Delete(ctx context.Context, id domain.AlbumID) error
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Save はユーザーを保存する。既存IDの場合は上書き更新する。
	Save(ctx context.Context, user *domain.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)

	// FindByGitHubID はGitHub IDでユーザーを検索する。見つからない場合はnilを返す。
	FindByGitHubID(ctx context.Context, githubID string) (*domain.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
