package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg Config, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	serviceLog.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique violations must surface as gorm.ErrDuplicatedKey so the
		// first-contact race on telegram_id is detectable by callers.
		TranslateError: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Agent{},
		&types.Dialog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
    DO $$ BEGIN
      ALTER TABLE "dialog"
      ADD CONSTRAINT "fk_dialog_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE;
    EXCEPTION WHEN duplicate_object THEN NULL;
    END $$;
  `).Error; err != nil {
		return fmt.Errorf("failed to add fk_dialog_user_id: %w", err)
	}
	if err := s.db.Exec(`
    DO $$ BEGIN
      ALTER TABLE "dialog"
      ADD CONSTRAINT "fk_dialog_agent_id"
      FOREIGN KEY ("agent_id")
      REFERENCES "agent"("id")
      ON DELETE SET NULL;
    EXCEPTION WHEN duplicate_object THEN NULL;
    END $$;
  `).Error; err != nil {
		return fmt.Errorf("failed to add fk_dialog_agent_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
