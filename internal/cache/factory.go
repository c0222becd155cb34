package cache

import "fmt"

// NewStore builds the Store selected by cfg.Backend
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case StoreTypeBolt, "":
		return NewBoltStore(cfg.Path, cfg.Namespace, cfg.OpenTimeout)
	case StoreTypeRedis:
		return NewRedisStore(cfg.Redis, cfg.Namespace)
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported backend %q", ErrInvalidConfig, cfg.Backend)
	}
}
