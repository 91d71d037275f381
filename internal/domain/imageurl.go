package domain

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

// validImageExtensions は画像として認識する拡張子の一覧。
var validImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// s3HostPattern はS3系オブジェクトストレージのホスト名パターン。
// 拡張子を持たないURLでも、このパターンにマッチするホストであれば画像として許可する
// （プリサインドURLのキーは拡張子を持たない場合がある）。
var s3HostPattern = regexp.MustCompile(`(^|\.)s3[.-]([a-z0-9-]+\.)?amazonaws\.com$`)

// ImageURL は画像URLを表す値オブジェクト。
// http/httpsの絶対URLであり、画像リソースを指すことを構築時に検証する。
type ImageURL struct {
	value string
}

// NewImageURL は検証済みのImageURLを生成する。
// 画像判定は、パスが既知の画像拡張子で終わるか、許可されたオブジェクト
// ストレージドメインでホストされているかのいずれかを満たすこと。
func NewImageURL(raw string) (ImageURL, error) {
	if strings.TrimSpace(raw) == "" {
		return ImageURL{}, NewInvalidImageURLError(raw, "空のURLは指定できません")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ImageURL{}, NewInvalidImageURLError(raw, "URLとして解析できません")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ImageURL{}, NewInvalidImageURLError(raw, "スキームはhttpまたはhttpsのみ許可されます")
	}

	if parsed.Host == "" {
		return ImageURL{}, NewInvalidImageURLError(raw, "ホストがありません")
	}

	if !hasImageExtension(parsed.Path) && !isAllowedImageHost(parsed.Hostname()) {
		return ImageURL{}, NewInvalidImageURLError(raw, "画像ファイルを指すURLではありません")
	}

	// 正規化された文字列を値として保持し、等価性判定を安定させる
	return ImageURL{value: parsed.String()}, nil
}

// String はURL文字列を返す。
func (u ImageURL) String() string {
	return u.value
}

// Equals は正規化済み文字列による値等価性を判定する。
func (u ImageURL) Equals(other ImageURL) bool {
	return u.value == other.value
}

// IsZero はゼロ値かどうかを返す。
func (u ImageURL) IsZero() bool {
	return u.value == ""
}

// MarshalJSON はURL文字列としてシリアライズする。
func (u ImageURL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value)
}

// UnmarshalJSON はJSON文字列からImageURLを復元する。検証を通す。
func (u *ImageURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewImageURL(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// hasImageExtension はパスが既知の画像拡張子で終わるかを判定する。
func hasImageExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range validImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isAllowedImageHost は許可されたオブジェクトストレージのホストかを判定する。
func isAllowedImageHost(host string) bool {
	return s3HostPattern.MatchString(strings.ToLower(host))
}
