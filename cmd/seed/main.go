package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/coffee-hunter/api/internal/config"
	mongorepo "github.com/sngm3741/coffee-hunter/api/internal/infrastructure/mongo"
	"github.com/sngm3741/coffee-hunter/api/internal/infrastructure/static"
	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
)

type seedOptions struct {
	file    string
	drop    bool
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the shop catalog into MongoDB",
		Long: `Reads the embedded catalog (or --file), validates it, replaces the contents
of the shops collection and creates the position and 2dsphere indexes.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFiles()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedCommand(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML catalog to load instead of the embedded one")
	cmd.Flags().BoolVar(&opts.drop, "drop", false, "drop the collection (and its indexes) before seeding")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall MongoDB timeout")
	return cmd
}

func runSeedCommand(cmd *cobra.Command, opts seedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defer func() { _ = cfg.Logger.Sync() }()

	repo := static.NewRepository()
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read catalog file: %w", err)
		}
		repo = static.NewRepositoryFromBytes(data)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	catalog, err := publicapp.LoadCatalog(ctx, repo)
	if err != nil {
		return err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	writer := mongorepo.NewShopRepository(client.Database(cfg.MongoDatabase), cfg.ShopCollection)
	summary, err := seedCatalog(ctx, writer, catalog, opts.drop)
	if err != nil {
		return err
	}
	summary.Target = fmt.Sprintf("%s / %s.%s", cfg.MongoURI, cfg.MongoDatabase, cfg.ShopCollection)
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}
