package cli

import (
	"fmt"

	"github.com/brightloom/pathguard/internal/config"
	"github.com/brightloom/pathguard/internal/repository"
)

// loadRepository builds the Repository configured by cfg.Repository,
// wrapping it in a TTL cache when one is configured.
func loadRepository(cfg *config.Config) (repository.Repository, error) {
	var repo repository.Repository

	switch cfg.Repository.Kind {
	case config.BackendSQL:
		store, err := repository.OpenSQLStore(cfg.Repository.DSN, cfg.Repository.Table)
		if err != nil {
			return nil, fmt.Errorf("open sql repository: %w", err)
		}
		repo = store
	case config.BackendMemory:
		repo = repository.NewMemory()
	default:
		store, err := repository.LoadFileStore(cfg.Repository.Dir)
		if err != nil {
			return nil, fmt.Errorf("load file repository: %w", err)
		}
		repo = store
	}

	if cfg.Repository.CacheTTL > 0 {
		repo = repository.NewCache(repo, cfg.Repository.CacheTTL)
	}

	return repo, nil
}
