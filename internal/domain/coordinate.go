package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0

	// earthRadiusKm は平均地球半径（km）。ハーバーサイン公式で使用する。
	earthRadiusKm = 6371.0
)

// Coordinate は地理座標を表す値オブジェクト。
// 構築時に緯度経度の範囲検証を行い、不正な座標は存在し得ない。
type Coordinate struct {
	latitude  float64
	longitude float64
}

// NewCoordinate は範囲検証済みのCoordinateを生成する。
// 緯度は-90〜90、経度は-180〜180（いずれも境界を含む）。
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if latitude < minLatitude || latitude > maxLatitude {
		return Coordinate{}, NewCoordinateOutOfBoundsError("latitude", latitude, minLatitude, maxLatitude)
	}
	if longitude < minLongitude || longitude > maxLongitude {
		return Coordinate{}, NewCoordinateOutOfBoundsError("longitude", longitude, minLongitude, maxLongitude)
	}
	return Coordinate{latitude: latitude, longitude: longitude}, nil
}

// Latitude は緯度を返す。
func (c Coordinate) Latitude() float64 {
	return c.latitude
}

// Longitude は経度を返す。
func (c Coordinate) Longitude() float64 {
	return c.longitude
}

// DistanceTo は2つの座標間の距離（km）をハーバーサイン公式で計算する。
// 同一座標に対しては0を返し、引数順序に対して対称。
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dLat := toRadians(other.latitude - c.latitude)
	dLon := toRadians(other.longitude - c.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(c.latitude))*math.Cos(toRadians(other.latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Equals は座標の値等価性を判定する。
func (c Coordinate) Equals(other Coordinate) bool {
	return c.latitude == other.latitude && c.longitude == other.longitude
}

// String は"緯度,経度"形式の文字列表現を返す。
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.latitude, c.longitude)
}

// coordinateJSON はCoordinateのJSON表現。
type coordinateJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalJSON は{"latitude": ..., "longitude": ...}形式でシリアライズする。
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinateJSON{Latitude: c.latitude, Longitude: c.longitude})
}

// UnmarshalJSON はJSONからCoordinateを復元する。範囲検証を通す。
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var v coordinateJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewCoordinate(v.Latitude, v.Longitude)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// toRadians は度をラジアンに変換する。
func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
