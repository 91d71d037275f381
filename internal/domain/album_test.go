package domain

import (
	"fmt"
	"testing"
	"time"
)

// テスト用の座標を生成する。
func testCoordinate(t *testing.T) Coordinate {
	t.Helper()
	c, err := NewCoordinate(35.6812, 139.7671)
	if err != nil {
		t.Fatalf("failed to create coordinate: %v", err)
	}
	return c
}

// テスト用の画像URLをn個生成する。
func testImageURLs(t *testing.T, n int) []ImageURL {
	t.Helper()
	urls := make([]ImageURL, 0, n)
	for i := 0; i < n; i++ {
		u, err := NewImageURL(fmt.Sprintf("https://example.com/photos/%d.jpg", i))
		if err != nil {
			t.Fatalf("failed to create image URL: %v", err)
		}
		urls = append(urls, u)
	}
	return urls
}

// 1〜10枚のユニークな画像でアルバムが生成でき、IDが有効なUUIDであることを検証
func TestNewAlbum_Valid(t *testing.T) {
	coord := testCoordinate(t)
	owner := NewUserID()

	for _, n := range []int{1, 5, 10} {
		t.Run(fmt.Sprintf("%d枚", n), func(t *testing.T) {
			album, err := NewAlbum(coord, testImageURLs(t, n), owner)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if album.ImageCount() != n {
				t.Errorf("image count = %d, want %d", album.ImageCount(), n)
			}
			if _, err := ParseAlbumID(album.ID().String()); err != nil {
				t.Errorf("album ID is not a valid UUID: %v", err)
			}
			if !album.IsOwnedBy(owner) {
				t.Error("expected album to be owned by creator")
			}
			if !album.CreatedAt().Equal(album.UpdatedAt()) {
				t.Error("expected createdAt == updatedAt on creation")
			}
		})
	}
}

// 画像数の上下限違反と重複で生成が失敗することを検証
func TestNewAlbum_Invalid(t *testing.T) {
	coord := testCoordinate(t)
	owner := NewUserID()

	t.Run("0枚", func(t *testing.T) {
		if _, err := NewAlbum(coord, nil, owner); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("11枚", func(t *testing.T) {
		if _, err := NewAlbum(coord, testImageURLs(t, 11), owner); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("重複URL", func(t *testing.T) {
		u, err := NewImageURL("https://example.com/photos/same.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewAlbum(coord, []ImageURL{u, u}, owner); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// 所有者以外による画像追加が常にUnauthorizedで失敗することを検証
func TestAlbum_AddImage_NonOwner(t *testing.T) {
	album, err := NewAlbum(testCoordinate(t), testImageURLs(t, 1), NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := NewImageURL("https://example.com/photos/new.jpg")
	err = album.AddImage(u, NewUserID())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if KindOf(err) != KindUnauthorized {
		t.Errorf("kind = %s, want %s", KindOf(err), KindUnauthorized)
	}
	if album.ImageCount() != 1 {
		t.Errorf("image count changed to %d on failed add", album.ImageCount())
	}
}

// 上限10枚のアルバムへの追加がValidationで失敗することを検証
func TestAlbum_AddImage_AtCapacity(t *testing.T) {
	owner := NewUserID()
	album, err := NewAlbum(testCoordinate(t), testImageURLs(t, 10), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := NewImageURL("https://example.com/photos/overflow.jpg")
	err = album.AddImage(u, owner)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if KindOf(err) != KindValidation {
		t.Errorf("kind = %s, want %s", KindOf(err), KindValidation)
	}
}

// 既存URLと同じ画像の追加がValidationで失敗することを検証
func TestAlbum_AddImage_Duplicate(t *testing.T) {
	owner := NewUserID()
	urls := testImageURLs(t, 2)
	album, err := NewAlbum(testCoordinate(t), urls, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := album.AddImage(urls[0], owner); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// 所有者による新規画像の追加が成功し、枚数と更新日時が進むことを検証
func TestAlbum_AddImage_Success(t *testing.T) {
	owner := NewUserID()
	album, err := NewAlbum(testCoordinate(t), testImageURLs(t, 3), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := album.UpdatedAt()
	time.Sleep(time.Millisecond)

	u, _ := NewImageURL("https://example.com/photos/new.jpg")
	if err := album.AddImage(u, owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if album.ImageCount() != 4 {
		t.Errorf("image count = %d, want 4", album.ImageCount())
	}
	if !album.UpdatedAt().After(before) {
		t.Error("expected updatedAt to advance")
	}
}

// 最後の1枚の削除が要求者に関わらずValidationで失敗することを検証
func TestAlbum_RemoveImage_LastImage(t *testing.T) {
	owner := NewUserID()
	urls := testImageURLs(t, 1)
	album, err := NewAlbum(testCoordinate(t), urls, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = album.RemoveImage(urls[0], owner)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if KindOf(err) != KindValidation {
		t.Errorf("kind = %s, want %s", KindOf(err), KindValidation)
	}
	if album.ImageCount() != 1 {
		t.Errorf("image count = %d, want 1", album.ImageCount())
	}
}

// 所有者以外による画像削除がUnauthorizedで失敗することを検証
func TestAlbum_RemoveImage_NonOwner(t *testing.T) {
	urls := testImageURLs(t, 2)
	album, err := NewAlbum(testCoordinate(t), urls, NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = album.RemoveImage(urls[0], NewUserID())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if KindOf(err) != KindUnauthorized {
		t.Errorf("kind = %s, want %s", KindOf(err), KindUnauthorized)
	}
}

// 存在しないURLの削除がValidationで失敗することを検証
func TestAlbum_RemoveImage_NotFound(t *testing.T) {
	owner := NewUserID()
	album, err := NewAlbum(testCoordinate(t), testImageURLs(t, 2), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing, _ := NewImageURL("https://example.com/photos/missing.jpg")
	if err := album.RemoveImage(missing, owner); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// 所有者による既存画像の削除が成功し、枚数が減ることを検証
func TestAlbum_RemoveImage_Success(t *testing.T) {
	owner := NewUserID()
	urls := testImageURLs(t, 3)
	album, err := NewAlbum(testCoordinate(t), urls, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := album.RemoveImage(urls[1], owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if album.ImageCount() != 2 {
		t.Errorf("image count = %d, want 2", album.ImageCount())
	}

	// 削除したURLが残っていないこと
	for _, u := range album.ImageURLs() {
		if u.Equals(urls[1]) {
			t.Error("removed URL still present")
		}
	}
}

// ImageURLsが防御的コピーを返すことを検証
func TestAlbum_ImageURLs_DefensiveCopy(t *testing.T) {
	owner := NewUserID()
	album, err := NewAlbum(testCoordinate(t), testImageURLs(t, 2), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := album.ImageURLs()
	got[0] = ImageURL{}

	if album.ImageURLs()[0].IsZero() {
		t.Error("mutating returned slice affected album state")
	}
}

// DistanceFromが座標のDistanceToに委譲することを検証
func TestAlbum_DistanceFrom(t *testing.T) {
	coord := testCoordinate(t)
	album, err := NewAlbum(coord, testImageURLs(t, 1), NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d := album.DistanceFrom(coord); d != 0 {
		t.Errorf("distance from own coordinate = %g, want 0", d)
	}
}
