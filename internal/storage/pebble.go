package storage

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// Key prefixes (simulating column families)
const (
	PrefixPortfolio = "pfl:"
	PrefixSettings  = "set:"
)

// Column family name to prefix mapping
var cfPrefixes = map[string]string{
	CFPortfolio: PrefixPortfolio,
	CFSettings:  PrefixSettings,
}

// Column family names
const (
	CFPortfolio = "portfolio"
	CFSettings  = "settings"
)

// PebbleDB wraps the Pebble database
type PebbleDB struct {
	db *pebble.DB
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(path string) (*PebbleDB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := &pebble.Options{
		Cache:        pebble.NewCache(32 << 20), // 32MB is plenty for two snapshot entries
		MaxOpenFiles: 100,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &PebbleDB{db: db}, nil
}

// Close closes the database
func (p *PebbleDB) Close() error {
	return p.db.Close()
}

// prefixKey creates a prefixed key for the given column family
func (p *PebbleDB) prefixKey(cf string, key []byte) ([]byte, error) {
	prefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}
	return append([]byte(prefix), key...), nil
}

// Put stores a key-value pair in the specified column family.
// Writes are always synced: the durable copy must never trail the
// in-memory state by more than the mutation being written.
func (p *PebbleDB) Put(cf string, key, value []byte) error {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return err
	}
	return p.db.Set(prefixedKey, value, pebble.Sync)
}

// Get retrieves a value from the specified column family
func (p *PebbleDB) Get(cf string, key []byte) ([]byte, error) {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return nil, err
	}

	value, closer, err := p.db.Get(prefixedKey)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's only valid until closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Delete removes a key from the specified column family
func (p *PebbleDB) Delete(cf string, key []byte) error {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return err
	}
	return p.db.Delete(prefixedKey, pebble.Sync)
}
