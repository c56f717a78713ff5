package mongo

import "time"

// ShopDocument は MongoDB 上での店舗スキーマを Go 構造体として表現したもの。
type ShopDocument struct {
	ID           string           `bson:"_id"`
	Position     int              `bson:"position"`
	Name         string           `bson:"name"`
	Address      string           `bson:"address"`
	Neighborhood string           `bson:"neighborhood,omitempty"`
	Location     GeoPointDocument `bson:"location"`
	Scores       ScoresDocument   `bson:"scores"`
	Reviews      []ReviewDocument `bson:"reviews,omitempty"`
	UpdatedAt    *time.Time       `bson:"updatedAt,omitempty"`
}

// GeoPointDocument は GeoJSON Point。Coordinates は [lng, lat] の順。
type GeoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// ScoresDocument は店舗ドキュメント内の scores 埋め込み構造を表す。
type ScoresDocument struct {
	Price    int     `bson:"price"`
	Taste    int     `bson:"taste"`
	Strength int     `bson:"strength"`
	Overall  float64 `bson:"overall"`
}

// ReviewDocument はレビュー 1 件分の埋め込みドキュメント。
type ReviewDocument struct {
	ID     string `bson:"id"`
	Author string `bson:"author"`
	Text   string `bson:"text"`
	Date   string `bson:"date"`
}
