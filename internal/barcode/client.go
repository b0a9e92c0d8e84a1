package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pharmtrack/pharmtrack-backend/pkg/config"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// Product is the basic product record returned by the UPC database
type Product struct {
	Barcode     string   `json:"barcode"`
	Name        string   `json:"product_name"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// ProductClient looks up barcodes against a UPC database API
type ProductClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewProductClient creates a barcode lookup client
func NewProductClient(cfg *config.BarcodeConfig, log *logger.Logger) *ProductClient {
	return &ProductClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.LookupURL,
		logger:     log.WithComponent("barcode-client"),
	}
}

type lookupResponse struct {
	Items []struct {
		Title       string   `json:"title"`
		Brand       string   `json:"brand"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Images      []string `json:"images"`
	} `json:"items"`
}

// Lookup fetches basic product data for a barcode. A barcode the database
// does not know returns (nil, nil); only transport and decoding problems are
// errors.
func (c *ProductClient) Lookup(ctx context.Context, code string) (*Product, error) {
	reqURL := fmt.Sprintf("%s?upc=%s", c.baseURL, url.QueryEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Str("barcode", code).Int("status", resp.StatusCode).Msg("barcode lookup returned non-OK status")
		return nil, nil
	}

	var data lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	if len(data.Items) == 0 {
		return nil, nil
	}

	item := data.Items[0]
	return &Product{
		Barcode:     code,
		Name:        item.Title,
		Brand:       item.Brand,
		Description: item.Description,
		Category:    item.Category,
		Images:      item.Images,
	}, nil
}
