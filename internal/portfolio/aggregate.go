package portfolio

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"

	"github.com/satwatch/satwatch/internal/models"
)

// ByGroup folds the records by their user-assigned group, summing
// balances. Zero-balance groups are excluded; rows are sorted descending
// by native amount with ties kept in first-encountered group order.
// Pure over its inputs; price may be nil when no quote is known.
func ByGroup(records []models.AddressRecord, price *models.PriceQuote) []models.AggregateRow {
	totals := make(map[string]int64)
	var order []string
	for _, r := range records {
		if _, seen := totals[r.Group]; !seen {
			order = append(order, r.Group)
		}
		totals[r.Group] += r.BalanceSats
	}

	rows := make([]models.AggregateRow, 0, len(order))
	for _, group := range order {
		if totals[group] == 0 {
			continue
		}
		rows = append(rows, newRow(group, totals[group], price))
	}

	sortRows(rows)
	return rows
}

// ByAddress produces one row per record with a nonzero balance, carrying
// both the raw address and its label, under the same sort rule as ByGroup.
func ByAddress(records []models.AddressRecord, price *models.PriceQuote) []models.AggregateRow {
	rows := make([]models.AggregateRow, 0, len(records))
	for _, r := range records {
		if r.BalanceSats == 0 {
			continue
		}
		row := newRow(r.Address, r.BalanceSats, price)
		row.Address = r.Address
		row.Label = r.Label
		rows = append(rows, row)
	}

	sortRows(rows)
	return rows
}

func newRow(key string, sats int64, price *models.PriceQuote) models.AggregateRow {
	row := models.AggregateRow{
		Key:        key,
		AmountSats: sats,
		AmountBTC:  btcutil.Amount(sats).ToBTC(),
	}
	if price != nil {
		fiat := decimal.NewFromInt(sats).
			Div(decimal.NewFromInt(int64(btcutil.SatoshiPerBitcoin))).
			Mul(decimal.NewFromFloat(price.Price))
		row.FiatValue = fiat.StringFixed(2)
	}
	return row
}

func sortRows(rows []models.AggregateRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AmountSats > rows[j].AmountSats
	})
}
