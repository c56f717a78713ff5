package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	publicapp "github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

// shopWriter is the part of the mongo repository the seed command needs.
type shopWriter interface {
	Drop(ctx context.Context) error
	ReplaceAll(ctx context.Context, shops []domain.Shop) (int, error)
	EnsureIndexes(ctx context.Context) error
}

type seedSummary struct {
	Dropped  bool
	Inserted int
	Verified int
	Reviews  int
	Target   string
}

func seedCatalog(ctx context.Context, w shopWriter, catalog *publicapp.Catalog, drop bool) (seedSummary, error) {
	summary := seedSummary{}
	if drop {
		if err := w.Drop(ctx); err != nil {
			return summary, fmt.Errorf("コレクション削除に失敗しました: %w", err)
		}
		summary.Dropped = true
	}

	shops := catalog.Shops()
	inserted, err := w.ReplaceAll(ctx, shops)
	if err != nil {
		return summary, fmt.Errorf("店舗データの挿入に失敗しました: %w", err)
	}
	summary.Inserted = inserted

	if err := w.EnsureIndexes(ctx); err != nil {
		return summary, fmt.Errorf("インデックス作成に失敗しました: %w", err)
	}

	for _, shop := range shops {
		if shop.IsVerified() {
			summary.Verified++
		}
		summary.Reviews += len(shop.Reviews)
	}
	return summary, nil
}

func printSummary(out io.Writer, s seedSummary) {
	ok := color.New(color.FgGreen).Sprint("✓")
	if s.Dropped {
		fmt.Fprintf(out, "%s dropped existing collection\n", color.New(color.FgYellow).Sprint("!"))
	}
	fmt.Fprintf(out, "%s seeded %d shops (%d verified, %d reviews)\n", ok, s.Inserted, s.Verified, s.Reviews)
	if s.Target != "" {
		fmt.Fprintf(out, "  target: %s\n", color.New(color.FgCyan).Sprint(s.Target))
	}
}
