// Package runstore keeps run reports between pipeline runs, either in memory
// or in a bbolt file. Reports are stored as JSON and expire after a TTL.
package runstore

import (
	"fmt"
	"time"

	"github.com/celiapp/catalog/internal/domain"
)

// Store types
const (
	TypeMemory = "memory"
	TypeBolt   = "bolt"
)

// Store is a RunRepository that holds resources until closed
type Store interface {
	domain.RunRepository
	Close() error
}

// Open creates the store of the given type. path is only used by bolt.
func Open(storeType, path string, ttl time.Duration) (Store, error) {
	switch storeType {
	case "", TypeMemory:
		return NewMemoryStore(ttl), nil
	case TypeBolt:
		if path == "" {
			return nil, fmt.Errorf("%w: bolt store needs a path", domain.ErrInvalidRequest)
		}
		return NewBoltStore(path, ttl)
	default:
		return nil, fmt.Errorf("%w: unknown store type %q", domain.ErrInvalidRequest, storeType)
	}
}
