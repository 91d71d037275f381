package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
)

// PostgresAlbumRepoはAlbumRepositoryインターフェースを満たすことを検証
func TestPostgresAlbumRepo_ImplementsInterface(t *testing.T) {
	var _ AlbumRepository = (*PostgresAlbumRepo)(nil)
}

// NewPostgresAlbumRepoが正しく初期化されることを検証
func TestNewPostgresAlbumRepo_Initializes(t *testing.T) {
	repo := NewPostgresAlbumRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// scanAlbumがDB行からアルバムを復元できることを検証（DB接続なし）
func TestScanAlbum_ReconstructsAlbum(t *testing.T) {
	id := domain.NewAlbumID()
	ownerID := domain.NewUserID()
	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)

	scan := fakeScan(t,
		id.String(),
		ownerID.String(),
		[]byte(`{"latitude":35.6762,"longitude":139.6503}`),
		[]byte(`["https://example.com/photos/a.jpg","https://example.com/photos/b.png"]`),
		createdAt,
		updatedAt,
	)

	album, err := scanAlbum(scan)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !album.ID().Equals(id) {
		t.Errorf("ID = %v, want %v", album.ID(), id)
	}
	if !album.OwnerID().Equals(ownerID) {
		t.Errorf("OwnerID = %v, want %v", album.OwnerID(), ownerID)
	}
	if album.Coordinate().Latitude() != 35.6762 {
		t.Errorf("Latitude = %v, want 35.6762", album.Coordinate().Latitude())
	}
	if album.ImageCount() != 2 {
		t.Errorf("ImageCount = %d, want 2", album.ImageCount())
	}
	if !album.CreatedAt().Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", album.CreatedAt(), createdAt)
	}
	if !album.UpdatedAt().Equal(updatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", album.UpdatedAt(), updatedAt)
	}
}

// 保存データが壊れている場合にリポジトリエラーを返すことを検証
func TestScanAlbum_CorruptedData(t *testing.T) {
	ownerID := domain.NewUserID()
	now := time.Now()

	tests := []struct {
		name string
		vals []any
	}{
		{
			name: "不正なアルバムID",
			vals: []any{
				"not-a-uuid", ownerID.String(),
				[]byte(`{"latitude":0,"longitude":0}`),
				[]byte(`["https://example.com/a.jpg"]`),
				now, now,
			},
		},
		{
			name: "不正な所有者ID",
			vals: []any{
				domain.NewAlbumID().String(), "not-a-uuid",
				[]byte(`{"latitude":0,"longitude":0}`),
				[]byte(`["https://example.com/a.jpg"]`),
				now, now,
			},
		},
		{
			name: "壊れた座標JSON",
			vals: []any{
				domain.NewAlbumID().String(), ownerID.String(),
				[]byte(`{invalid`),
				[]byte(`["https://example.com/a.jpg"]`),
				now, now,
			},
		},
		{
			name: "範囲外の座標",
			vals: []any{
				domain.NewAlbumID().String(), ownerID.String(),
				[]byte(`{"latitude":999,"longitude":0}`),
				[]byte(`["https://example.com/a.jpg"]`),
				now, now,
			},
		},
		{
			name: "壊れた画像URL JSON",
			vals: []any{
				domain.NewAlbumID().String(), ownerID.String(),
				[]byte(`{"latitude":0,"longitude":0}`),
				[]byte(`[not-json`),
				now, now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			album, err := scanAlbum(fakeScan(t, tt.vals...))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if album != nil {
				t.Error("expected nil album on error")
			}
			if domain.KindOf(err) != domain.KindRepository && domain.KindOf(err) != domain.KindValidation {
				t.Errorf("error kind = %v, want repository or validation", domain.KindOf(err))
			}
		})
	}
}

// scanAlbumがsql.ErrNoRowsをそのまま透過することを検証
func TestScanAlbum_PassesThroughNoRows(t *testing.T) {
	scan := func(dest ...any) error {
		return sql.ErrNoRows
	}

	_, err := scanAlbum(scan)
	if err != sql.ErrNoRows {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

// fakeScan はDB行の代わりに固定値をdestに書き込むscan関数を返す。
func fakeScan(t *testing.T, vals ...any) func(dest ...any) error {
	t.Helper()
	return func(dest ...any) error {
		if len(dest) != len(vals) {
			t.Fatalf("scan dest count = %d, want %d", len(dest), len(vals))
		}
		for i, v := range vals {
			switch d := dest[i].(type) {
			case *string:
				*d = v.(string)
			case *[]byte:
				*d = v.([]byte)
			case *time.Time:
				*d = v.(time.Time)
			default:
				t.Fatalf("unsupported scan dest type at %d: %T", i, dest[i])
			}
		}
		return nil
	}
}
