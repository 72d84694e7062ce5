package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/merchware/pulseboard/internal/domain"
)

const apiVersion = "2024-01"

// Shopify's REST rate limit is 2 req/s with a burst bucket of 40.
func defaultLimiter() *rate.Limiter { return rate.NewLimiter(rate.Limit(2), 40) }

// ShopifyClient talks to the Shopify Admin REST API for a single store.
type ShopifyClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewShopifyClient binds a client to one store. storeURL may be given with or
// without a scheme; an https scheme is assumed when absent.
func NewShopifyClient(storeURL, accessToken string, httpClient *http.Client) *ShopifyClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	base := strings.TrimSuffix(storeURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &ShopifyClient{
		baseURL:     base,
		accessToken: accessToken,
		httpClient:  httpClient,
		limiter:     defaultLimiter(),
	}
}

func (c *ShopifyClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, apiVersion, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func listQuery(limit int, sinceID string) url.Values {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}
	return q
}

func (c *ShopifyClient) ListCustomers(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyCustomer, error) {
	var payload struct {
		Customers []domain.ShopifyCustomer `json:"customers"`
	}
	if err := c.get(ctx, "customers.json", listQuery(limit, sinceID), &payload); err != nil {
		return nil, &domain.UpstreamError{Op: "list customers", Err: err}
	}
	return payload.Customers, nil
}

func (c *ShopifyClient) ListProducts(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyProduct, error) {
	var payload struct {
		Products []domain.ShopifyProduct `json:"products"`
	}
	if err := c.get(ctx, "products.json", listQuery(limit, sinceID), &payload); err != nil {
		return nil, &domain.UpstreamError{Op: "list products", Err: err}
	}
	return payload.Products, nil
}

func (c *ShopifyClient) ListOrders(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyOrder, error) {
	q := listQuery(limit, sinceID)
	// Without these Shopify hides cancelled and unpaid orders.
	q.Set("status", "any")
	q.Set("financial_status", "any")

	var payload struct {
		Orders []domain.ShopifyOrder `json:"orders"`
	}
	if err := c.get(ctx, "orders.json", q, &payload); err != nil {
		return nil, &domain.UpstreamError{Op: "list orders", Err: err}
	}
	return payload.Orders, nil
}

func (c *ShopifyClient) TestConnection(ctx context.Context) (*domain.ConnectionStatus, error) {
	var payload struct {
		Shop struct {
			Name   string `json:"name"`
			Domain string `json:"myshopify_domain"`
		} `json:"shop"`
	}
	if err := c.get(ctx, "shop.json", nil, &payload); err != nil {
		return &domain.ConnectionStatus{
			Success: false,
			Message: fmt.Sprintf("connection failed: %v", err),
		}, nil
	}
	return &domain.ConnectionStatus{
		Success: true,
		Shop:    payload.Shop.Name,
		Message: "connected",
	}, nil
}

// Factory builds store-bound clients sharing one access token and transport.
type Factory struct {
	accessToken string
	httpClient  *http.Client
}

func NewFactory(accessToken string, httpClient *http.Client) *Factory {
	return &Factory{accessToken: accessToken, httpClient: httpClient}
}

func (f *Factory) For(storeURL string) domain.CommerceClient {
	return NewShopifyClient(storeURL, f.accessToken, f.httpClient)
}
