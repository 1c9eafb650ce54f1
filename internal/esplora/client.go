package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/satwatch/satwatch/internal/models"
)

// Client queries an esplora-style address ledger indexer
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new esplora client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// addressResponse is the /address/{addr} response
type addressResponse struct {
	ChainStats struct {
		FundedTxoSum int64 `json:"funded_txo_sum"`
		SpentTxoSum  int64 `json:"spent_txo_sum"`
	} `json:"chain_stats"`
	MempoolStats struct {
		FundedTxoSum int64 `json:"funded_txo_sum"`
		SpentTxoSum  int64 `json:"spent_txo_sum"`
	} `json:"mempool_stats"`
}

// txResponse is one entry of the /address/{addr}/txs response; only the
// newest entry's confirmation status is consumed.
type txResponse struct {
	Status struct {
		Confirmed bool  `json:"confirmed"`
		BlockTime int64 `json:"block_time"`
	} `json:"status"`
}

// FetchAddress resolves the confirmed+unconfirmed balance and the time of
// the most recent transaction for one address. Any transport, status or
// decode failure yields an error, never a zero balance.
func (c *Client) FetchAddress(ctx context.Context, address string) (*models.FetchResult, error) {
	var addrResp addressResponse
	if err := c.get(ctx, "/address/"+url.PathEscape(address), &addrResp); err != nil {
		return nil, fmt.Errorf("failed to fetch address %s: %w", address, err)
	}

	balance := (addrResp.ChainStats.FundedTxoSum - addrResp.ChainStats.SpentTxoSum) +
		(addrResp.MempoolStats.FundedTxoSum - addrResp.MempoolStats.SpentTxoSum)

	var txs []txResponse
	if err := c.get(ctx, "/address/"+url.PathEscape(address)+"/txs", &txs); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for %s: %w", address, err)
	}

	lastTx := models.UnknownTxTime()
	if len(txs) > 0 {
		if txs[0].Status.Confirmed {
			lastTx = models.ConfirmedTxTime(txs[0].Status.BlockTime)
		} else {
			lastTx = models.PendingTxTime()
		}
	}

	return &models.FetchResult{
		BalanceSats: balance,
		LastTx:      lastTx,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
