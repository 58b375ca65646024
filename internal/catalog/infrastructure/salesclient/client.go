// Package salesclient is the synchronous edge to the ordering system: it asks the
// sales API which sales reference a product, forwarding the caller's correlation
// identifiers verbatim so both services log under the same transaction id.
package salesclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecomflow/catalog-service/pkg/correlation"
	"github.com/ecomflow/catalog-service/pkg/logging"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

func New(log *slog.Logger, baseURL string) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type salesByProductResponse struct {
	SalesIDs []string `json:"salesIds"`
}

// FindSalesByProductID requires an active correlation scope; the transactionid,
// serviceid and Authorization token travel on the request. A timeout or non-200
// is an error for the caller, never an empty result.
func (c *Client) FindSalesByProductID(ctx context.Context, productID int) ([]string, error) {
	corr, err := correlation.From(ctx)
	if err != nil {
		return nil, err
	}
	log := logging.WithCorrelation(c.log, corr)

	url := fmt.Sprintf("%s/api/orders/products/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", corr.Token)
	req.Header.Set("transactionid", corr.TransactionID)
	req.Header.Set("serviceid", corr.ServiceID)

	log.Info("requesting sales by product", "product_id", productID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sales api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sales api returned status %d", resp.StatusCode)
	}

	var body salesByProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode sales api response: %w", err)
	}
	log.Info("received sales by product", "product_id", productID, "sales", len(body.SalesIDs))
	return body.SalesIDs, nil
}
