package main

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/coffee-hunter/api/internal/config"
	mongorepo "github.com/sngm3741/coffee-hunter/api/internal/infrastructure/mongo"
	"github.com/sngm3741/coffee-hunter/api/internal/infrastructure/static"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/server"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	defer func() { _ = cfg.Logger.Sync() }()

	catalog, client, err := loadCatalog(cfg)
	if err != nil {
		cfg.Logger.Fatalf("カタログの読み込みに失敗しました: %v", err)
	}
	cfg.Logger.Infow("catalog loaded", "source", cfg.CatalogSource, "shops", catalog.Len())

	app := server.New(cfg, catalog, client)
	if err := app.Run(); err != nil {
		cfg.Logger.Fatalf("サーバー起動に失敗: %v", err)
	}
}

// loadCatalog は CATALOG_SOURCE に応じてカタログを一度だけ読み込む。mongo の場合は接続済みクライアントも返す。
func loadCatalog(cfg config.Config) (*publicapp.Catalog, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if cfg.CatalogSource != config.SourceMongo {
		catalog, err := publicapp.LoadCatalog(ctx, static.NewRepository())
		return catalog, nil, err
	}

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}

	repo := mongorepo.NewShopRepository(client.Database(cfg.MongoDatabase), cfg.ShopCollection)
	catalog, err := publicapp.LoadCatalog(ctx, repo)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return catalog, client, nil
}
