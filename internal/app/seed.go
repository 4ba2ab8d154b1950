package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/trackerbot/core/bootstrap"
	"github.com/m3rciful/trackerbot/core/logger"
	"github.com/m3rciful/trackerbot/internal/storage"
)

// categorySeeder creates the configured default categories without limits.
// Names that already exist are skipped, so seeding is idempotent.
func categorySeeder(names []string) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, s bootstrap.Storage) error {
		store, ok := s.(*storage.Store)
		if !ok {
			return fmt.Errorf("seed: unexpected storage type %T", s)
		}
		created := 0
		for _, name := range names {
			_, err := store.Categories().Create(ctx, name, decimal.NullDecimal{})
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			if err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
			created++
		}
		logger.SEED.Info("categories seeded",
			slog.String("event", "db.seed"),
			slog.Int("requested", len(names)),
			slog.Int("created", created),
		)
		return nil
	})
}
