package storage

import (
	"encoding/json"
	"fmt"

	"github.com/satwatch/satwatch/internal/models"
)

// Storage keys within their column families
const (
	keyAddresses = "addresses"
	keyPrivacy   = "privacy"
)

// PortfolioStore persists the tracked address collection and display
// settings. The collection is stored as one opaque snapshot document and
// overwritten wholesale on every mutation.
type PortfolioStore struct {
	db *PebbleDB
}

// NewPortfolioStore creates a new PortfolioStore
func NewPortfolioStore(db *PebbleDB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// SaveAddresses stores the full address collection
func (s *PortfolioStore) SaveAddresses(records []models.AddressRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}
	return s.db.Put(CFPortfolio, []byte(keyAddresses), data)
}

// LoadAddresses retrieves the stored address collection.
// Returns an empty slice when nothing has been stored yet.
func (s *PortfolioStore) LoadAddresses() ([]models.AddressRecord, error) {
	data, err := s.db.Get(CFPortfolio, []byte(keyAddresses))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []models.AddressRecord{}, nil
	}

	var records []models.AddressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal addresses: %w", err)
	}
	return records, nil
}

// SavePrivacy stores the privacy-display flag
func (s *PortfolioStore) SavePrivacy(enabled bool) error {
	value := []byte("0")
	if enabled {
		value = []byte("1")
	}
	return s.db.Put(CFSettings, []byte(keyPrivacy), value)
}

// LoadPrivacy retrieves the privacy-display flag, defaulting to false
func (s *PortfolioStore) LoadPrivacy() (bool, error) {
	data, err := s.db.Get(CFSettings, []byte(keyPrivacy))
	if err != nil {
		return false, err
	}
	return string(data) == "1", nil
}
