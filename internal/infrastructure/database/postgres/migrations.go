package postgres

import (
	"context"
	"fmt"
	"time"

	"crm-service/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is one step of the linear schema history. Every step is
// reversible; Down must undo exactly what Up did.
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

type schemaMigration struct {
	ID        string    `gorm:"type:varchar(255);primary_key;column:id"`
	AppliedAt time.Time `gorm:"not null;column:applied_at"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// Migrations returns the ordered chain. Order matters: later steps depend on
// the tables created by earlier ones.
func Migrations() []Migration {
	return []Migration{
		{
			ID: "0001_create_users",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE users (
						id uuid PRIMARY KEY,
						username varchar(100) NOT NULL,
						password varchar(255) NOT NULL,
						is_admin boolean NOT NULL DEFAULT false,
						dt_created timestamptz NOT NULL DEFAULT now(),
						dt_deleted timestamptz
					)
				`).Error; err != nil {
					return err
				}
				return db.Exec(`CREATE UNIQUE INDEX ix_users_username ON users (username)`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec(`DROP INDEX IF EXISTS ix_users_username`).Error; err != nil {
					return err
				}
				return db.Exec(`DROP TABLE users`).Error
			},
		},
		{
			ID: "0002_create_customers",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE customers (
						id varchar(255) PRIMARY KEY,
						name varchar(255) NOT NULL,
						surname varchar(255) NOT NULL,
						photo_url text,
						dt_created timestamptz NOT NULL DEFAULT now(),
						dt_deleted timestamptz
					)
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`DROP TABLE customers`).Error
			},
		},
		{
			ID: "0003_audit_columns",
			Up: func(db *gorm.DB) error {
				stmts := []string{
					`ALTER TABLE users ADD COLUMN dt_updated timestamptz`,
					`ALTER TABLE customers ADD COLUMN dt_updated timestamptz`,
					`ALTER TABLE customers ADD COLUMN created_by_id uuid NOT NULL REFERENCES users (id)`,
					`ALTER TABLE customers ADD COLUMN updated_by_id uuid REFERENCES users (id)`,
					`CREATE INDEX ix_customers_created_by_id ON customers (created_by_id)`,
				}
				for _, stmt := range stmts {
					if err := db.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(db *gorm.DB) error {
				stmts := []string{
					`DROP INDEX IF EXISTS ix_customers_created_by_id`,
					`ALTER TABLE customers DROP COLUMN updated_by_id`,
					`ALTER TABLE customers DROP COLUMN created_by_id`,
					`ALTER TABLE customers DROP COLUMN dt_updated`,
					`ALTER TABLE users DROP COLUMN dt_updated`,
				}
				for _, stmt := range stmts {
					if err := db.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// MigrateUp applies every pending migration in order. Applied IDs must form a
// prefix of the chain; anything else means the schema history diverged.
func (d *DB) MigrateUp(ctx context.Context) error {
	db := d.DB.WithContext(ctx)

	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	chain := Migrations()
	if len(applied) > len(chain) {
		return fmt.Errorf("schema history has %d applied migrations, chain only knows %d", len(applied), len(chain))
	}
	for i, id := range applied {
		if chain[i].ID != id {
			return fmt.Errorf("schema history diverged at %q, expected %q", id, chain[i].ID)
		}
	}

	for _, m := range chain[len(applied):] {
		logger.Info("Applying migration", zap.String("id", m.ID))
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.ID, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
	}

	return nil
}

// MigrateDown reverts the most recently applied migration.
func (d *DB) MigrateDown(ctx context.Context) error {
	db := d.DB.WithContext(ctx)

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no migrations to revert")
	}

	last := applied[len(applied)-1]
	var target *Migration
	chain := Migrations()
	for i := range chain {
		if chain[i].ID == last {
			target = &chain[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("applied migration %q is unknown to the chain", last)
	}

	logger.Info("Reverting migration", zap.String("id", target.ID))
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&schemaMigration{ID: target.ID}).Error
	})
	if err != nil {
		return fmt.Errorf("revert of %s failed: %w", target.ID, err)
	}

	return nil
}

func appliedMigrations(db *gorm.DB) ([]string, error) {
	var rows []schemaMigration
	if err := db.Order("applied_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read schema history: %w", err)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}
