package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satwatch/satwatch/internal/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	records := []models.AddressRecord{
		{
			ID:          "1700000000001",
			Address:     "bc1qone",
			Label:       "Cold stash",
			Group:       "Cold Storage",
			BalanceSats: 123456,
			LastTx:      models.ConfirmedTxTime(1700000000),
			LastUpdated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:      "1700000000002",
			Address: "bc1qtwo",
			Label:   "Spending",
			Group:   "Hot Wallet",
			LastTx:  models.PendingTxTime(),
		},
	}

	data, err := Export(records)
	require.NoError(t, err)

	got, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestExportImportRoundTripEmpty(t *testing.T) {
	data, err := Export([]models.AddressRecord{})
	require.NoError(t, err)

	got, err := Import(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImportRejectsNonSequence(t *testing.T) {
	for _, doc := range []string{
		`{"address":"bc1qone","id":"1"}`,
		`"just a string"`,
		`42`,
		`not json at all`,
	} {
		_, err := Import([]byte(doc))
		assert.ErrorIs(t, err, models.ErrInvalidFormat, "document: %s", doc)
	}
}

func TestImportRejectsElementsMissingFields(t *testing.T) {
	for _, doc := range []string{
		`[{"id":"1"}]`,
		`[{"address":"bc1qone"}]`,
		`[{"address":"bc1qone","id":"1"},{"address":"","id":"2"}]`,
		`[[1,2,3]]`,
	} {
		_, err := Import([]byte(doc))
		assert.ErrorIs(t, err, models.ErrInvalidFormat, "document: %s", doc)
	}
}

func TestImportAcceptsNumericID(t *testing.T) {
	doc := `[{"address":"bc1qone","id":123},{"address":"bc1qtwo","id":1700000000002}]`

	got, err := Import([]byte(doc))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "123", got[0].ID)
	assert.Equal(t, "1700000000002", got[1].ID)
}

func TestImportRejectsUndefinedID(t *testing.T) {
	for _, doc := range []string{
		`[{"address":"bc1qone","id":null}]`,
		`[{"address":"bc1qone","id":""}]`,
		`[{"address":"bc1qone","id":true}]`,
		`[{"address":"bc1qone","id":{"n":1}}]`,
	} {
		_, err := Import([]byte(doc))
		assert.ErrorIs(t, err, models.ErrInvalidFormat, "document: %s", doc)
	}
}

func TestImportAcceptsExtraFields(t *testing.T) {
	doc := `[{"address":"bc1qone","id":"1","color":"purple","nested":{"a":1}}]`

	got, err := Import([]byte(doc))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bc1qone", got[0].Address)
	assert.Equal(t, "1", got[0].ID)
}

func TestImportFailureLeavesStoreUnchanged(t *testing.T) {
	p := &fakePersister{}
	s := NewStore(p, []models.AddressRecord{{ID: "1", Address: "keep"}}, false)

	_, err := Import([]byte(`{"not":"a sequence"}`))
	require.ErrorIs(t, err, models.ErrInvalidFormat)

	// Validation failed before ReplaceAll was ever called
	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "keep", snap[0].Address)
	assert.Equal(t, 0, p.saves)
}
