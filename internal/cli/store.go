package cli

import (
	"fmt"
	"time"

	"github.com/aretw0/skelly/internal/config"
	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/adapters/memory"
	"github.com/aretw0/skelly/pkg/adapters/redis"
	"github.com/aretw0/skelly/pkg/adapters/sqlite"
	"github.com/aretw0/skelly/pkg/ports"
)

// Backend bundles a snapshot store with the locker that matches it.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.Locker
	close  func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the store selected by cfg. The redis backend also
// provides a distributed locker; the others lock in-process.
func OpenBackend(cfg config.Store) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return &Backend{Store: memory.NewStore(), Locker: memory.NewLocker()}, nil

	case config.BackendFile:
		return &Backend{Store: file.NewStore(cfg.Path), Locker: memory.NewLocker()}, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Locker: memory.NewLocker(), close: store.Close}, nil

	case config.BackendRedis:
		var opts []redis.Option
		if cfg.TTLSeconds > 0 {
			opts = append(opts, redis.WithTTL(time.Duration(cfg.TTLSeconds)*time.Second))
		}
		store, err := redis.NewFromURL(cfg.RedisURL, opts...)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), "skelly:lock:"),
			close:  store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
