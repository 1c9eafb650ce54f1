package portfolio

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/satwatch/satwatch/internal/models"
)

// ErrNotFound is returned when a record id does not exist in the store
var ErrNotFound = errors.New("address record not found")

// ErrDuplicateAddress is returned when an address is already tracked
var ErrDuplicateAddress = errors.New("address already tracked")

// Persister is the durable backend the store writes through to on every
// mutation. Satisfied by storage.PortfolioStore.
type Persister interface {
	SaveAddresses([]models.AddressRecord) error
	SavePrivacy(bool) error
}

// Store is the canonical in-memory collection of tracked address records.
// It is the single source of truth: the refresher merges into it, the
// aggregation functions and API handlers read from it, and every mutation
// is written through to the Persister before returning.
type Store struct {
	mu      sync.RWMutex
	records []models.AddressRecord
	privacy bool
	lastID  int64
	persist Persister
}

// NewStore creates a Store seeded with previously persisted state
func NewStore(persist Persister, records []models.AddressRecord, privacy bool) *Store {
	s := &Store{
		records: make([]models.AddressRecord, len(records)),
		privacy: privacy,
		persist: persist,
	}
	copy(s.records, records)
	s.bumpLastID(records)
	return s
}

// bumpLastID advances the id counter past every numeric id in records so
// freshly assigned ids are never reused. Caller must hold mu (or be the
// constructor).
func (s *Store) bumpLastID(records []models.AddressRecord) {
	for _, r := range records {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
}

// nextID returns a fresh id, unique for the process lifetime.
// Millisecond-clock derived with a monotonic bump on collision.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// Add creates a record for an address whose initial fetch already
// succeeded, appends it (insertion order is display order) and persists.
func (s *Store) Add(address, label, group string, res models.FetchResult) (models.AddressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Address == address {
			return models.AddressRecord{}, ErrDuplicateAddress
		}
	}

	if label == "" {
		label = models.DefaultLabel
	}
	if group == "" {
		group = models.DefaultGroup
	}

	rec := models.AddressRecord{
		ID:          s.nextID(),
		Address:     address,
		Label:       label,
		Group:       group,
		BalanceSats: res.BalanceSats,
		LastTx:      res.LastTx,
		LastUpdated: time.Now().UTC(),
	}

	// Persist the candidate first and swap only on success, so a failed
	// write-through never leaves the collection mutated in memory.
	candidate := append(append([]models.AddressRecord{}, s.records...), rec)
	if err := s.persist.SaveAddresses(candidate); err != nil {
		return models.AddressRecord{}, fmt.Errorf("failed to persist addresses: %w", err)
	}
	s.records = candidate
	return rec, nil
}

// Remove deletes the record with the given id; no-op if absent.
// Removal is permanent and does not affect other records' ids.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			candidate := make([]models.AddressRecord, 0, len(s.records)-1)
			candidate = append(candidate, s.records[:i]...)
			candidate = append(candidate, s.records[i+1:]...)
			if err := s.persist.SaveAddresses(candidate); err != nil {
				return fmt.Errorf("failed to persist addresses: %w", err)
			}
			s.records = candidate
			return nil
		}
	}
	return nil
}

// UpdateDetails mutates the label and group of an existing record
func (s *Store) UpdateDetails(id, label, group string) (models.AddressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		candidate := make([]models.AddressRecord, len(s.records))
		copy(candidate, s.records)
		if label != "" {
			candidate[i].Label = label
		}
		if group != "" {
			candidate[i].Group = group
		}
		if err := s.persist.SaveAddresses(candidate); err != nil {
			return models.AddressRecord{}, fmt.Errorf("failed to persist addresses: %w", err)
		}
		s.records = candidate
		return candidate[i], nil
	}
	return models.AddressRecord{}, ErrNotFound
}

// ReplaceAll atomically swaps the entire collection. Used by import after
// the document has passed validation; the swap either fully applies or the
// store is unchanged.
func (s *Store) ReplaceAll(records []models.AddressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := make([]models.AddressRecord, len(records))
	copy(replacement, records)

	if err := s.persist.SaveAddresses(replacement); err != nil {
		return fmt.Errorf("failed to persist addresses: %w", err)
	}
	s.records = replacement
	s.bumpLastID(replacement)
	return nil
}

// MergeRefreshResults applies one refresh cycle's per-address results.
// A nil entry marks a failed fetch: the record's balance and last-tx state
// are retained and only LastUpdated is stamped to reflect the attempt.
// Ids absent from the map are untouched; ids in the map that no longer
// exist in the store (removed mid-cycle) are ignored.
func (s *Store) MergeRefreshResults(results map[string]*models.FetchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	candidate := make([]models.AddressRecord, len(s.records))
	copy(candidate, s.records)

	changed := false
	for i := range candidate {
		res, attempted := results[candidate[i].ID]
		if !attempted {
			continue
		}
		if res != nil {
			candidate[i].BalanceSats = res.BalanceSats
			candidate[i].LastTx = res.LastTx
		}
		candidate[i].LastUpdated = now
		changed = true
	}
	if !changed {
		return nil
	}

	if err := s.persist.SaveAddresses(candidate); err != nil {
		return fmt.Errorf("failed to persist addresses: %w", err)
	}
	s.records = candidate
	return nil
}

// Snapshot returns a copy of the current collection in display order
func (s *Store) Snapshot() []models.AddressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AddressRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Privacy returns the privacy-display flag
func (s *Store) Privacy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privacy
}

// SetPrivacy updates and persists the privacy-display flag
func (s *Store) SetPrivacy(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.SavePrivacy(enabled); err != nil {
		return fmt.Errorf("failed to persist privacy flag: %w", err)
	}
	s.privacy = enabled
	return nil
}
