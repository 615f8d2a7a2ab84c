package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"livesell/internal/cartengine"
	"livesell/internal/httpapi"
	"livesell/internal/sales"
)

// SalesClient submits sale drafts to the sales service. It satisfies
// checkout.SaleSubmitter.
type SalesClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSalesClient(baseURL string) *SalesClient {
	return &SalesClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SubmitSale posts the draft and returns the persisted sale.
func (c *SalesClient) SubmitSale(ctx context.Context, draft cartengine.SaleDraft) (*sales.Sale, error) {
	payload, err := json.Marshal(sales.CreateSaleRequest{
		Items:       draft.Items,
		TotalAmount: draft.TotalAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sale draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sales", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call sales service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errResp httpapi.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("sales service rejected draft: %s: %s", errResp.Error, errResp.Message)
		}
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var sale sales.Sale
	if err := json.Unmarshal(body, &sale); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sale: %w", err)
	}
	return &sale, nil
}
