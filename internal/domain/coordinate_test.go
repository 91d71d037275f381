package domain

import (
	"encoding/json"
	"math"
	"testing"
)

// 有効な緯度経度でCoordinateが生成できることを検証
func TestNewCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
	}{
		{"東京駅", 35.6812, 139.7671},
		{"原点", 0, 0},
		{"緯度の下限", -90, 0},
		{"緯度の上限", 90, 0},
		{"経度の下限", 0, -180},
		{"経度の上限", 0, 180},
		{"南西の隅", -90, -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.latitude, tt.longitude)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Latitude() != tt.latitude {
				t.Errorf("latitude = %g, want %g", c.Latitude(), tt.latitude)
			}
			if c.Longitude() != tt.longitude {
				t.Errorf("longitude = %g, want %g", c.Longitude(), tt.longitude)
			}
		})
	}
}

// 範囲外の緯度経度で生成が失敗し、違反した軸が報告されることを検証
func TestNewCoordinate_OutOfBounds(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
	}{
		{"緯度が大きすぎる", 90.1, 0},
		{"緯度が小さすぎる", -90.1, 0},
		{"経度が大きすぎる", 0, 180.1},
		{"経度が小さすぎる", 0, -180.1},
		{"両方範囲外", 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoordinate(tt.latitude, tt.longitude)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("kind = %s, want %s", KindOf(err), KindValidation)
			}
		})
	}
}

// 同一座標間の距離が正確に0であることを検証
func TestCoordinate_DistanceTo_SamePoint(t *testing.T) {
	c, err := NewCoordinate(35.6812, 139.7671)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d := c.DistanceTo(c); d != 0 {
		t.Errorf("distance to self = %g, want exactly 0", d)
	}
}

// 渋谷駅-新宿駅間の距離が既知の範囲内にあり、対称であることを検証
func TestCoordinate_DistanceTo_KnownStations(t *testing.T) {
	shibuya, err := NewCoordinate(35.6762, 139.6503)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shinjuku, err := NewCoordinate(35.6896, 139.7006)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := shibuya.DistanceTo(shinjuku)
	if d <= 4 || d >= 6 {
		t.Errorf("distance = %g km, want in (4, 6)", d)
	}

	// 対称性
	reverse := shinjuku.DistanceTo(shibuya)
	if math.Abs(d-reverse) > 1e-9 {
		t.Errorf("distance is not symmetric: %g vs %g", d, reverse)
	}
}

// 座標がJSONを経由して値を保ったまま往復できることを検証
func TestCoordinate_JSONRoundTrip(t *testing.T) {
	original, err := NewCoordinate(-45.5, 170.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Coordinate
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !original.Equals(restored) {
		t.Errorf("round trip changed value: %s -> %s", original, restored)
	}
}

// 範囲外の値を含むJSONのデシリアライズが失敗することを検証
func TestCoordinate_UnmarshalJSON_OutOfBounds(t *testing.T) {
	var c Coordinate
	if err := json.Unmarshal([]byte(`{"latitude":91,"longitude":0}`), &c); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// 値による等価性判定を検証
func TestCoordinate_Equals(t *testing.T) {
	a, _ := NewCoordinate(10, 20)
	b, _ := NewCoordinate(10, 20)
	c, _ := NewCoordinate(10, 21)

	if !a.Equals(b) {
		t.Error("expected a == b")
	}
	if a.Equals(c) {
		t.Error("expected a != c")
	}
}
