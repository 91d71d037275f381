package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// maxUsernameLength はGitHubのユーザー名の最大長。
const maxUsernameLength = 39

// usernamePattern はGitHubユーザー名の形式（英数字とハイフンのみ）。
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// User はGitHubアカウントと連携したサービス利用ユーザーを表すエンティティ。
// GitHub IDと作成日時は生成後に変更できない。
type User struct {
	id        UserID
	githubID  string
	username  string
	avatarURL string // 空文字列は未設定を表す
	name      string // 空文字列は未設定を表す
	createdAt time.Time
	updatedAt time.Time
}

// NewUser は新しいユーザーを生成する。
// githubIDとusernameは必須。usernameは39文字以内の英数字とハイフンのみ。
// avatarURLとnameは省略可能（空文字列で未設定）。
func NewUser(githubID, username, avatarURL, name string) (*User, error) {
	if strings.TrimSpace(githubID) == "" {
		return nil, NewUserValidationError("GitHub IDは必須です")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateAvatarURL(avatarURL); err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		id:        NewUserID(),
		githubID:  githubID,
		username:  username,
		avatarURL: avatarURL,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser は永続化層から読み出した値でユーザーを復元する。
func ReconstructUser(id UserID, githubID, username, avatarURL, name string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		githubID:  githubID,
		username:  username,
		avatarURL: avatarURL,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID はユーザーIDを返す。
func (u *User) ID() UserID { return u.id }

// GitHubID は連携しているGitHubアカウントのIDを返す。
func (u *User) GitHubID() string { return u.githubID }

// Username はGitHubのログイン名を返す。
func (u *User) Username() string { return u.username }

// AvatarURL はアバター画像URLを返す。未設定の場合は空文字列。
func (u *User) AvatarURL() string { return u.avatarURL }

// Name は表示用の本名を返す。未設定の場合は空文字列。
func (u *User) Name() string { return u.name }

// CreatedAt は作成日時を返す。
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt は最終更新日時を返す。
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// DisplayName は表示名を返す。nameが設定されていればname、なければusername。
func (u *User) DisplayName() string {
	if u.name != "" {
		return u.name
	}
	return u.username
}

// UpdateProfile はプロフィール情報を更新する。
// nilのフィールドは変更しない。avatarURL・nameに空文字列を渡すと未設定に戻す。
// 検証ルールはNewUserと同一。変更の有無に関わらず成功時は更新日時を進める。
func (u *User) UpdateProfile(username, avatarURL, name *string) error {
	if username != nil {
		if err := validateUsername(*username); err != nil {
			return err
		}
	}
	if avatarURL != nil && *avatarURL != "" {
		if err := validateAvatarURL(*avatarURL); err != nil {
			return err
		}
	}

	// 検証がすべて通ってから反映する（部分適用を防ぐ）
	if username != nil {
		u.username = *username
	}
	if avatarURL != nil {
		u.avatarURL = *avatarURL
	}
	if name != nil {
		u.name = *name
	}

	u.touch()
	return nil
}

// IsSameGitHubUser は指定されたGitHub IDと同一ユーザーかを判定する。
func (u *User) IsSameGitHubUser(githubID string) bool {
	return u.githubID == githubID
}

// Equals はIDによる同一性を判定する。
func (u *User) Equals(other *User) bool {
	return other != nil && u.id.Equals(other.id)
}

// touch は更新日時を単調非減少で進める。
func (u *User) touch() {
	if now := time.Now(); now.After(u.updatedAt) {
		u.updatedAt = now
	}
}

// validateUsername はユーザー名の形式を検証する。
func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewUserValidationError("ユーザー名は必須です")
	}
	if len(username) > maxUsernameLength {
		return NewUserValidationError("ユーザー名は39文字以内で指定してください")
	}
	if !usernamePattern.MatchString(username) {
		return NewUserValidationError("ユーザー名に使用できるのは英数字とハイフンのみです")
	}
	return nil
}

// validateAvatarURL はアバターURLの形式を検証する。空文字列は未設定として許可する。
func validateAvatarURL(avatarURL string) error {
	if avatarURL == "" {
		return nil
	}
	parsed, err := url.Parse(avatarURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return NewUserValidationError("アバターURLの形式が不正です")
	}
	return nil
}
