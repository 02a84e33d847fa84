package commands

import (
	"fmt"
	"os"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/store"
)

// openStore connects to the configured blob store backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		return store.NewPostgresStore(cfg.DatabaseURL)
	case config.StoreBackendMemory:
		return nil, fmt.Errorf("STORE_BACKEND=memory has no persistent records to manage")
	default:
		return store.NewRedisStore(cfg.RedisURL)
	}
}

func closeStore(s store.Store) {
	if err := s.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}
