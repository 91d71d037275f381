package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// uuidPattern はUUID形式の検証パターン（大文字小文字を区別しない）。
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UserID はユーザーの識別子を表す値オブジェクト。
// AlbumIDとは別の型として定義し、取り違えをコンパイル時に防ぐ。
type UserID struct {
	value string
}

// NewUserID はランダムなv4-UUIDで新しいUserIDを生成する。失敗しない。
func NewUserID() UserID {
	return UserID{value: uuid.New().String()}
}

// ParseUserID は外部入力の文字列からUserIDを生成する。UUID形式を検証する。
func ParseUserID(raw string) (UserID, error) {
	if !isValidUUID(raw) {
		return UserID{}, NewInvalidIDError("ユーザーID", raw)
	}
	return UserID{value: raw}, nil
}

// String はID文字列を返す。
func (id UserID) String() string { return id.value }

// Equals は値等価性を判定する。
func (id UserID) Equals(other UserID) bool { return id.value == other.value }

// IsZero はゼロ値かどうかを返す。
func (id UserID) IsZero() bool { return id.value == "" }

// AlbumID はアルバムの識別子を表す値オブジェクト。
type AlbumID struct {
	value string
}

// NewAlbumID はランダムなv4-UUIDで新しいAlbumIDを生成する。失敗しない。
func NewAlbumID() AlbumID {
	return AlbumID{value: uuid.New().String()}
}

// ParseAlbumID は外部入力の文字列からAlbumIDを生成する。UUID形式を検証する。
func ParseAlbumID(raw string) (AlbumID, error) {
	if !isValidUUID(raw) {
		return AlbumID{}, NewInvalidIDError("アルバムID", raw)
	}
	return AlbumID{value: raw}, nil
}

// String はID文字列を返す。
func (id AlbumID) String() string { return id.value }

// Equals は値等価性を判定する。
func (id AlbumID) Equals(other AlbumID) bool { return id.value == other.value }

// IsZero はゼロ値かどうかを返す。
func (id AlbumID) IsZero() bool { return id.value == "" }

// isValidUUID はUUID形式かどうかを判定する。大文字も許容する。
func isValidUUID(raw string) bool {
	return uuidPattern.MatchString(strings.ToLower(raw))
}
