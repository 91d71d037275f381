package domain

import (
	"encoding/json"
	"testing"
)

// 有効な画像URLが受け付けられることを検証
func TestNewImageURL_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"jpg拡張子", "https://example.com/photos/cat.jpg"},
		{"jpeg拡張子", "https://example.com/photos/cat.jpeg"},
		{"png拡張子", "http://example.com/cat.png"},
		{"gif拡張子", "https://example.com/cat.gif"},
		{"webp拡張子", "https://example.com/cat.webp"},
		{"svg拡張子", "https://example.com/icon.svg"},
		{"大文字の拡張子", "https://example.com/photos/CAT.JPG"},
		{"クエリ付き", "https://example.com/cat.png?w=300"},
		{"S3ホスト・拡張子なし", "https://my-bucket.s3.ap-northeast-1.amazonaws.com/uploads/abc123"},
		{"S3グローバルホスト", "https://my-bucket.s3.amazonaws.com/uploads/abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewImageURL(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.IsZero() {
				t.Error("expected non-zero ImageURL")
			}
		})
	}
}

// 無効な画像URLが拒否されることを検証
func TestNewImageURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"空文字列", ""},
		{"空白のみ", "   "},
		{"スキームなし", "example.com/cat.jpg"},
		{"ftpスキーム", "ftp://example.com/cat.jpg"},
		{"javascriptスキーム", "javascript:alert(1)"},
		{"拡張子なし・一般ホスト", "https://example.com/photos/cat"},
		{"画像以外の拡張子", "https://example.com/doc.pdf"},
		{"S3に似た別ドメイン", "https://bucket.s3.amazonaws.com.evil.example/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImageURL(tt.raw)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("kind = %s, want %s", KindOf(err), KindValidation)
			}
		})
	}
}

// 正規化された値による等価性判定を検証
func TestImageURL_Equals(t *testing.T) {
	a, err := NewImageURL("https://example.com/cat.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewImageURL("https://example.com/cat.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := NewImageURL("https://example.com/dog.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Equals(b) {
		t.Error("expected a == b")
	}
	if a.Equals(c) {
		t.Error("expected a != c")
	}
}

// JSON往復で値が保たれることを検証
func TestImageURL_JSONRoundTrip(t *testing.T) {
	original, err := NewImageURL("https://example.com/photos/cat.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored ImageURL
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !original.Equals(restored) {
		t.Errorf("round trip changed value: %s -> %s", original, restored)
	}
}

// 無効なURLを含むJSONのデシリアライズが失敗することを検証
func TestImageURL_UnmarshalJSON_Invalid(t *testing.T) {
	var u ImageURL
	if err := json.Unmarshal([]byte(`"https://example.com/doc.pdf"`), &u); err == nil {
		t.Fatal("expected error, got nil")
	}
}
