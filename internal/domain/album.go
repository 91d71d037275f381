package domain

import "time"

const (
	// MinAlbumImages はアルバムが保持できる画像の最小数。
	MinAlbumImages = 1
	// MaxAlbumImages はアルバムが保持できる画像の最大数。
	MaxAlbumImages = 10
)

// Album は地理座標に関連付けられた写真集合を表す集約ルート。
// 画像数の上下限・重複禁止・所有者ゲートの不変条件を、構築時だけでなく
// すべての変更操作で強制する。
type Album struct {
	id        AlbumID
	coordinate Coordinate
	imageURLs []ImageURL
	ownerID   UserID
	createdAt time.Time
	updatedAt time.Time
}

// NewAlbum は新しいアルバムを生成する。
// IDは自動採番され、作成日時と更新日時は同一の現在時刻になる。
// 画像は1〜10枚、値の重複は許可しない。
func NewAlbum(coordinate Coordinate, imageURLs []ImageURL, ownerID UserID) (*Album, error) {
	if err := validateImageURLs(imageURLs); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Album{
		id:         NewAlbumID(),
		coordinate: coordinate,
		imageURLs:  append([]ImageURL(nil), imageURLs...),
		ownerID:    ownerID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructAlbum は永続化層から読み出した値でアルバムを復元する。
// 保存時点で不変条件は検証済みとみなし、再検証は行わない。
func ReconstructAlbum(id AlbumID, coordinate Coordinate, imageURLs []ImageURL, ownerID UserID, createdAt, updatedAt time.Time) *Album {
	return &Album{
		id:         id,
		coordinate: coordinate,
		imageURLs:  append([]ImageURL(nil), imageURLs...),
		ownerID:    ownerID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID はアルバムIDを返す。
func (a *Album) ID() AlbumID { return a.id }

// Coordinate はアルバムの座標を返す。
func (a *Album) Coordinate() Coordinate { return a.coordinate }

// ImageURLs は画像URL一覧のコピーを返す。
// 返されたスライスを変更してもアルバムの状態には影響しない。
func (a *Album) ImageURLs() []ImageURL {
	return append([]ImageURL(nil), a.imageURLs...)
}

// ImageCount は画像数を返す。
func (a *Album) ImageCount() int { return len(a.imageURLs) }

// OwnerID は所有者のユーザーIDを返す。
func (a *Album) OwnerID() UserID { return a.ownerID }

// CreatedAt は作成日時を返す。
func (a *Album) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt は最終更新日時を返す。
func (a *Album) UpdatedAt() time.Time { return a.updatedAt }

// AddImage は画像を追加する。所有者のみ実行できる。
// 既に10枚保持している場合、または同一URLが存在する場合は失敗する。
// 成功時は更新日時を進める。呼び出し側が明示的に永続化すること。
func (a *Album) AddImage(imageURL ImageURL, requesterID UserID) error {
	if !a.IsOwnedBy(requesterID) {
		return NewUnauthorizedError("画像を追加できるのはアルバムの所有者のみです")
	}

	if len(a.imageURLs) >= MaxAlbumImages {
		return NewAlbumValidationError("アルバムに保存できる画像は10枚までです")
	}

	for _, existing := range a.imageURLs {
		if existing.Equals(imageURL) {
			return NewAlbumValidationError("同じ画像URLが既にアルバムに存在します")
		}
	}

	a.imageURLs = append(a.imageURLs, imageURL)
	a.touch()
	return nil
}

// RemoveImage は画像を削除する。所有者のみ実行できる。
// 指定URLが存在しない場合は失敗する。最後の1枚は削除できない
// （アルバム自体の削除を使用すること）。成功時は更新日時を進める。
func (a *Album) RemoveImage(imageURL ImageURL, requesterID UserID) error {
	if !a.IsOwnedBy(requesterID) {
		return NewUnauthorizedError("画像を削除できるのはアルバムの所有者のみです")
	}

	index := -1
	for i, existing := range a.imageURLs {
		if existing.Equals(imageURL) {
			index = i
			break
		}
	}
	if index == -1 {
		return NewAlbumValidationError("指定された画像URLはアルバムに存在しません")
	}

	if len(a.imageURLs) == MinAlbumImages {
		return NewAlbumValidationError("最後の1枚は削除できません。アルバム自体を削除してください")
	}

	a.imageURLs = append(a.imageURLs[:index], a.imageURLs[index+1:]...)
	a.touch()
	return nil
}

// IsOwnedBy は指定ユーザーがアルバムの所有者かどうかを返す。
func (a *Album) IsOwnedBy(userID UserID) bool {
	return a.ownerID.Equals(userID)
}

// DistanceFrom は指定座標からの距離（km）を返す。
func (a *Album) DistanceFrom(coordinate Coordinate) float64 {
	return a.coordinate.DistanceTo(coordinate)
}

// Equals はIDによる同一性を判定する。
func (a *Album) Equals(other *Album) bool {
	return other != nil && a.id.Equals(other.id)
}

// touch は更新日時を単調非減少で進める。
func (a *Album) touch() {
	if now := time.Now(); now.After(a.updatedAt) {
		a.updatedAt = now
	}
}

// validateImageURLs は画像数の上下限と値の重複を検証する。
func validateImageURLs(imageURLs []ImageURL) error {
	if len(imageURLs) < MinAlbumImages {
		return NewAlbumValidationError("アルバムには少なくとも1枚の画像が必要です")
	}
	if len(imageURLs) > MaxAlbumImages {
		return NewAlbumValidationError("アルバムに保存できる画像は10枚までです")
	}

	seen := make(map[string]struct{}, len(imageURLs))
	for _, u := range imageURLs {
		if _, ok := seen[u.String()]; ok {
			return NewAlbumValidationError("同じ画像URLを重複して登録することはできません")
		}
		seen[u.String()] = struct{}{}
	}
	return nil
}
