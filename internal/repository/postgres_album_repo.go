package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// PostgresAlbumRepo はPostgreSQLを使用したアルバムリポジトリ。
// 座標と画像URL一覧はJSONカラムとして格納する。
type PostgresAlbumRepo struct {
	db *sql.DB
}

// NewPostgresAlbumRepo はPostgresAlbumRepoを生成する。
func NewPostgresAlbumRepo(db *sql.DB) *PostgresAlbumRepo {
	return &PostgresAlbumRepo{db: db}
}

// Save はアルバムをUPSERTで保存する。
// 同一アルバムへの並行書き込みはlast-writer-winsとなる。
func (r *PostgresAlbumRepo) Save(ctx context.Context, album *domain.Album) error {
	coordJSON, err := json.Marshal(album.Coordinate())
	if err != nil {
		return domain.NewRepositoryError("座標のシリアライズに失敗しました", err)
	}
	urlsJSON, err := json.Marshal(album.ImageURLs())
	if err != nil {
		return domain.NewRepositoryError("画像URLのシリアライズに失敗しました", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO albums (id, user_id, coordinate, image_urls, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   coordinate = EXCLUDED.coordinate,
		   image_urls = EXCLUDED.image_urls,
		   updated_at = EXCLUDED.updated_at`,
		album.ID().String(),
		album.OwnerID().String(),
		coordJSON,
		urlsJSON,
		album.CreatedAt(),
		album.UpdatedAt(),
	)
	if err != nil {
		return domain.NewRepositoryError("アルバムの保存に失敗しました", err)
	}
	return nil
}

// FindByID は指定IDのアルバムを取得する。見つからない場合はnilを返す。
func (r *PostgresAlbumRepo) FindByID(ctx context.Context, id domain.AlbumID) (*domain.Album, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, coordinate, image_urls, created_at, updated_at
		 FROM albums WHERE id = $1`,
		id.String(),
	)

	album, err := scanAlbum(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

// FindByOwnerID は指定ユーザーが所有するアルバム一覧を作成日時の降順で返す。
func (r *PostgresAlbumRepo) FindByOwnerID(ctx context.Context, ownerID domain.UserID) ([]*domain.Album, error) {
	return r.findMany(ctx,
		`SELECT id, user_id, coordinate, image_urls, created_at, updated_at
		 FROM albums WHERE user_id = $1 ORDER BY created_at DESC`,
		ownerID.String(),
	)
}

// FindAll は全アルバムを作成日時の降順で返す。
func (r *PostgresAlbumRepo) FindAll(ctx context.Context) ([]*domain.Album, error) {
	return r.findMany(ctx,
		`SELECT id, user_id, coordinate, image_urls, created_at, updated_at
		 FROM albums ORDER BY created_at DESC`,
	)
}

// Delete は指定IDのアルバムを削除する。存在しない場合はNotFoundエラーを返す。
func (r *PostgresAlbumRepo) Delete(ctx context.Context, id domain.AlbumID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id.String())
	if err != nil {
		return domain.NewRepositoryError("アルバムの削除に失敗しました", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewRepositoryError("削除結果の取得に失敗しました", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError("アルバム", id.String())
	}
	return nil
}

// findMany は複数アルバムを取得する共通処理。
func (r *PostgresAlbumRepo) findMany(ctx context.Context, query string, args ...any) ([]*domain.Album, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewRepositoryError("アルバムの取得に失敗しました", err)
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		album, err := scanAlbum(rows.Scan)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("アルバムの読み取り中にエラーが発生しました", err)
	}

	return albums, nil
}

// scanAlbum は1行分のスキャン結果からアルバムを復元する。
// sql.ErrNoRowsは呼び出し側で判定できるようそのまま返す。
func scanAlbum(scan func(dest ...any) error) (*domain.Album, error) {
	var (
		rawID     string
		rawOwner  string
		coordJSON []byte
		urlsJSON  []byte
		createdAt time.Time
		updatedAt time.Time
	)

	if err := scan(&rawID, &rawOwner, &coordJSON, &urlsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, domain.NewRepositoryError("アルバム行のスキャンに失敗しました", err)
	}

	id, err := domain.ParseAlbumID(rawID)
	if err != nil {
		return nil, domain.NewRepositoryError("保存されていたアルバムIDが不正です", err)
	}
	ownerID, err := domain.ParseUserID(rawOwner)
	if err != nil {
		return nil, domain.NewRepositoryError("保存されていた所有者IDが不正です", err)
	}

	var coordinate domain.Coordinate
	if err := json.Unmarshal(coordJSON, &coordinate); err != nil {
		return nil, domain.NewRepositoryError("座標のデシリアライズに失敗しました", err)
	}

	var imageURLs []domain.ImageURL
	if err := json.Unmarshal(urlsJSON, &imageURLs); err != nil {
		return nil, domain.NewRepositoryError("画像URLのデシリアライズに失敗しました", err)
	}

	return domain.ReconstructAlbum(id, coordinate, imageURLs, ownerID, createdAt, updatedAt), nil
}

// compile-time interface check
var _ AlbumRepository = (*PostgresAlbumRepo)(nil)
