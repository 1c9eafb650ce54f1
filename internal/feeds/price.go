package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/satwatch/satwatch/internal/models"
)

// PriceClient fetches the spot price and 24h change for a fixed
// asset/currency pair from a CoinGecko-compatible service
type PriceClient struct {
	baseURL string
	assetID string
	fiat    string
	client  *http.Client
}

// NewPriceClient creates a new price feed client
func NewPriceClient(baseURL, assetID, fiat string, timeout time.Duration) *PriceClient {
	return &PriceClient{
		baseURL: baseURL,
		assetID: assetID,
		fiat:    strings.ToLower(fiat),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchPrice retrieves the current spot price and 24-hour change.
// No retry logic: the next scheduled cycle is the retry.
func (c *PriceClient) FetchPrice(ctx context.Context) (*models.PriceQuote, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true",
		c.baseURL, c.assetID, c.fiat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch price: status %d", resp.StatusCode)
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode price: %w", err)
	}

	asset, ok := result[c.assetID]
	if !ok {
		return nil, fmt.Errorf("asset %s missing from price response", c.assetID)
	}
	price, ok := asset[c.fiat]
	if !ok {
		return nil, fmt.Errorf("currency %s missing from price response", c.fiat)
	}

	return &models.PriceQuote{
		Price:     price,
		Change24h: asset[c.fiat+"_24h_change"],
	}, nil
}
