package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/satwatch/satwatch/internal/models"
)

// FeeClient fetches recommended fee-rate tiers from a mempool.space
// compatible service
type FeeClient struct {
	baseURL string
	client  *http.Client
}

// NewFeeClient creates a new fee feed client
func NewFeeClient(baseURL string, timeout time.Duration) *FeeClient {
	return &FeeClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// recommendedResponse is the /v1/fees/recommended response
type recommendedResponse struct {
	FastestFee  int64 `json:"fastestFee"`
	HalfHourFee int64 `json:"halfHourFee"`
	HourFee     int64 `json:"hourFee"`
}

// FetchFees retrieves the recommended fee-rate tiers in sat/vB
func (c *FeeClient) FetchFees(ctx context.Context) (*models.FeeEstimate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/fees/recommended", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fees: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch fees: status %d", resp.StatusCode)
	}

	var rec recommendedResponse
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode fees: %w", err)
	}

	return &models.FeeEstimate{
		Fastest:  rec.FastestFee,
		HalfHour: rec.HalfHourFee,
		Hour:     rec.HourFee,
	}, nil
}
