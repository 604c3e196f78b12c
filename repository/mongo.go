package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dododo1295/quicknotes/config"
	"github.com/dododo1295/quicknotes/utils"
)

// ConnectMongo opens a client and pings the primary until it answers or the
// configured attempts run out.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetPoolMonitor(utils.MongoPoolMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := pingWithRetry(ctx, "mongodb", cfg.PingAttempts, func() error {
		return client.Ping(ctx, readpref.Primary())
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

func pingWithRetry(ctx context.Context, name string, attempts uint, ping func() error) error {
	// retry-go treats zero attempts as "forever".
	if attempts == 0 {
		attempts = 1
	}

	err := retry.Do(
		ping,
		retry.Context(ctx),
		retry.Delay(300*time.Millisecond),
		retry.Attempts(attempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			slog.WarnContext(ctx, "failed ping to database",
				slog.String("database", name),
				slog.Uint64("attempt", uint64(attempt)),
				utils.Err(err),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("ping %s: %w", name, err)
	}
	return nil
}
