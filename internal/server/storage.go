package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophaccounts/internal/cryptox"
	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/auth"
	"github.com/dmitrijs2005/gophaccounts/internal/server/config"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophaccounts/internal/server/services"
)

// Storage is the opened user store: the unit of work plus the database
// handle behind it. DB is nil when the in-memory store is selected.
type Storage struct {
	DB      *sql.DB
	UoW     repomanager.UnitOfWork
	manager repomanager.RepositoryManager
}

// OpenStorage connects to the store named by cfg.DatabaseDSN. Migrations are
// not applied; call Migrate.
func OpenStorage(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Storage, error) {
	if cfg.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using in-memory user store, data will not survive a restart")
		return &Storage{UoW: repomanager.NewMemoryUnitOfWork(users.NewMemoryTable())}, nil
	}

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	return &Storage{DB: db, UoW: repomanager.NewUnitOfWork(db, manager), manager: manager}, nil
}

// Migrate applies pending schema migrations. It is a no-op for the in-memory store.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	if err := s.manager.RunMigrations(ctx, s.DB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewAuthService builds the auth service with the codecs configured by cfg.
func NewAuthService(cfg *config.Config, storage *Storage, notifier services.VerificationNotifier, logger logging.Logger) *services.AuthService {
	hasher := cryptox.NewHasher(cryptox.DefaultParams, cfg.MaxConcurrentHashes)
	tokens := auth.NewTokenCodec([]byte(cfg.SecretKey))
	return services.NewAuthService(storage.UoW, hasher, tokens, notifier, cfg, logger)
}
