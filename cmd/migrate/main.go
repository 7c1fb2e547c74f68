package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"crm-service/internal/config"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/infrastructure/database/postgres"
	"crm-service/internal/logger"
	"crm-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Applies the schema migration chain. "up" also seeds the bootstrap admin
// account when the users table is empty.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	ctx := context.Background()

	switch direction {
	case "up":
		if err := db.MigrateUp(ctx); err != nil {
			logger.Fatal("Migration failed", zap.Error(err))
		}
		if err := seedAdmin(ctx, cfg, db); err != nil {
			logger.Fatal("Admin seed failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, "migrations completed")
	case "down":
		if err := db.MigrateDown(ctx); err != nil {
			logger.Fatal("Revert failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, "last migration reverted")
	default:
		logger.Fatal("Unknown direction, use 'up' or 'down'", zap.String("direction", direction))
	}
}

// seedAdmin inserts the bootstrap admin once, on a freshly migrated empty
// database. Subsequent runs are no-ops.
func seedAdmin(ctx context.Context, cfg *config.Config, db *postgres.DB) error {
	users := postgres.NewUserRepository(db)

	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Admin.Password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping bootstrap admin seed")
		return nil
	}

	hashed, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &domainUser.User{
		ID:        uuid.New(),
		Username:  cfg.Admin.Username,
		Password:  hashed,
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Bootstrap admin created",
		zap.String("user_id", admin.ID.String()),
		zap.String("username", admin.Username),
	)

	return nil
}
