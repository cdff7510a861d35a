package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/storelane/inventory/internal/port"
)

// HTTPCatalog is the read-only client for the product catalog service.
// Only identity and display metadata are read; product data is never
// duplicated into the stock core.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCatalog(baseURL string) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *HTTPCatalog) ProductExists(ctx context.Context, productID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(productID), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
}

func (c *HTTPCatalog) Product(ctx context.Context, productID string) (*port.ProductInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(productID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var info port.ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &info, nil
}

func (c *HTTPCatalog) productURL(productID string) string {
	return fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)
}
