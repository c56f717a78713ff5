package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

const geoPointType = "Point"

// ShopRepository implements application.ShopRepository using MongoDB.
type ShopRepository struct {
	collection *mongo.Collection
}

// NewShopRepository creates a new Mongo-backed shop repository.
func NewShopRepository(db *mongo.Database, collectionName string) *ShopRepository {
	return &ShopRepository{collection: db.Collection(collectionName)}
}

// All returns every shop ordered by its catalog position.
func (r *ShopRepository) All(ctx context.Context) ([]domain.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	shops := make([]domain.Shop, 0)
	for cursor.Next(ctx) {
		var doc ShopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		shop, err := mapShopDocument(doc)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}

// ReplaceAll はコレクションを空にしてから shops をスライス順の position で挿入する。
func (r *ShopRepository) ReplaceAll(ctx context.Context, shops []domain.Shop) (int, error) {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("clear shops: %w", err)
	}
	if len(shops) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(shops))
	for i, shop := range shops {
		doc := newShopDocument(shop, i)
		doc.UpdatedAt = &now
		docs = append(docs, doc)
	}
	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert shops: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Drop removes the collection together with its indexes.
func (r *ShopRepository) Drop(ctx context.Context) error {
	return r.collection.Drop(ctx)
}

// EnsureIndexes creates the position and 2dsphere indexes.
func (r *ShopRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "position", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

func newShopDocument(shop domain.Shop, position int) ShopDocument {
	reviews := make([]ReviewDocument, 0, len(shop.Reviews))
	for _, r := range shop.Reviews {
		reviews = append(reviews, ReviewDocument{ID: r.ID, Author: r.Author, Text: r.Text, Date: r.Date})
	}
	return ShopDocument{
		ID:           shop.ID,
		Position:     position,
		Name:         shop.Name,
		Address:      shop.Address,
		Neighborhood: shop.Neighborhood,
		Location: GeoPointDocument{
			Type:        geoPointType,
			Coordinates: []float64{shop.Location.Lng, shop.Location.Lat},
		},
		Scores: ScoresDocument{
			Price:    shop.PriceScore,
			Taste:    shop.TasteScore,
			Strength: shop.StrengthScore,
			Overall:  shop.OverallScore,
		},
		Reviews: reviews,
	}
}

func mapShopDocument(doc ShopDocument) (domain.Shop, error) {
	if doc.Location.Type != geoPointType || len(doc.Location.Coordinates) != 2 {
		return domain.Shop{}, fmt.Errorf("shop %q: location is not a GeoJSON point", doc.ID)
	}
	reviews := make([]domain.Review, 0, len(doc.Reviews))
	for _, r := range doc.Reviews {
		reviews = append(reviews, domain.Review{ID: r.ID, Author: r.Author, Text: r.Text, Date: r.Date})
	}
	return domain.Shop{
		ID:           doc.ID,
		Name:         doc.Name,
		Address:      doc.Address,
		Neighborhood: doc.Neighborhood,
		Location: domain.Location{
			Lat: doc.Location.Coordinates[1],
			Lng: doc.Location.Coordinates[0],
		},
		PriceScore:    doc.Scores.Price,
		TasteScore:    doc.Scores.Taste,
		StrengthScore: doc.Scores.Strength,
		OverallScore:  doc.Scores.Overall,
		Reviews:       reviews,
	}, nil
}
