package portfolio

import (
	"encoding/json"
	"fmt"

	"github.com/satwatch/satwatch/internal/models"
)

// Export serializes the full record collection to the portable document
// format: a single JSON array carrying every field of every record.
func Export(records []models.AddressRecord) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export document: %w", err)
	}
	return data, nil
}

// Import validates a portable document and returns the records it holds.
// The document must be a JSON array and every element must carry a
// non-empty address and a defined id; additional fields are accepted
// permissively, and a numeric id is normalized to its decimal string form.
// Any other shape is rejected wholesale with models.ErrInvalidFormat so a
// malformed document can never partially replace the tracked collection.
func Import(data []byte) ([]models.AddressRecord, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: document is not a sequence", models.ErrInvalidFormat)
	}

	records := make([]models.AddressRecord, 0, len(elements))
	for i, el := range elements {
		var raw struct {
			models.AddressRecord
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(el, &raw); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an address record", models.ErrInvalidFormat, i)
		}
		rec := raw.AddressRecord
		if rec.Address == "" {
			return nil, fmt.Errorf("%w: element %d has no address", models.ErrInvalidFormat, i)
		}
		id, ok := decodeID(raw.ID)
		if !ok {
			return nil, fmt.Errorf("%w: element %d has no id", models.ErrInvalidFormat, i)
		}
		rec.ID = id
		records = append(records, rec)
	}
	return records, nil
}

// decodeID accepts a string or numeric id; anything else is undefined
func decodeID(raw json.RawMessage) (string, bool) {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, s != ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil && n != "" {
		return n.String(), true
	}
	return "", false
}
