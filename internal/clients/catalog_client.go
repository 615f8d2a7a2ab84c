package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"livesell/internal/cartengine"
)

// ErrItemNotFound distinguishes a delisted item from a transport failure:
// the display drops the item for the former and falls back to a full
// refresh for the latter.
var ErrItemNotFound = errors.New("catalog item not found")

// CatalogClient fetches the sellable catalog from the catalog service.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type itemList struct {
	Items []cartengine.CatalogItem `json:"items"`
}

// SellableItems fetches the items eligible for selling.
func (c *CatalogClient) SellableItems(ctx context.Context) ([]cartengine.CatalogItem, error) {
	return c.fetchItems(ctx, "/items?sellable=true")
}

// Snapshot fetches the sellable catalog as a cart-engine snapshot.
func (c *CatalogClient) Snapshot(ctx context.Context) (cartengine.Snapshot, error) {
	items, err := c.SellableItems(ctx)
	if err != nil {
		return cartengine.Snapshot{}, err
	}
	return cartengine.NewSnapshot(items), nil
}

// Item fetches a single catalog item.
func (c *CatalogClient) Item(ctx context.Context, itemID string) (cartengine.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items/"+itemID, nil)
	if err != nil {
		return cartengine.CatalogItem{}, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cartengine.CatalogItem{}, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cartengine.CatalogItem{}, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var item cartengine.CatalogItem
		if err := json.Unmarshal(body, &item); err != nil {
			return cartengine.CatalogItem{}, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		return item, nil
	case http.StatusNotFound:
		return cartengine.CatalogItem{}, ErrItemNotFound
	default:
		return cartengine.CatalogItem{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}

func (c *CatalogClient) fetchItems(ctx context.Context, path string) ([]cartengine.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var list itemList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return list.Items, nil
}
