package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListCustomers(t *testing.T) {
	var gotToken, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"customers":[{"id":101,"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","total_spent":"120.50","orders_count":3}]}`))
	}))
	defer srv.Close()

	client := NewShopifyClient(srv.URL, "tok-123", srv.Client())
	customers, err := client.ListCustomers(context.Background(), 250, "100")
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}

	if gotToken != "tok-123" {
		t.Errorf("access token header = %q, want %q", gotToken, "tok-123")
	}
	if gotPath != "/admin/api/"+apiVersion+"/customers.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "limit=250&since_id=100" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(customers) != 1 {
		t.Fatalf("got %d customers, want 1", len(customers))
	}
	if customers[0].ID != 101 || customers[0].TotalSpent != "120.50" {
		t.Errorf("unexpected customer: %+v", customers[0])
	}
}

func TestListOrdersIncludesAllStatuses(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"orders":[]}`))
	}))
	defer srv.Close()

	client := NewShopifyClient(srv.URL, "tok", srv.Client())
	if _, err := client.ListOrders(context.Background(), 50, ""); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if gotQuery != "financial_status=any&limit=50&status=any" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestListCustomersUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewShopifyClient(srv.URL, "bad-token", srv.Client())
	_, err := client.ListCustomers(context.Background(), 10, "")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/"+apiVersion+"/shop.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"shop":{"name":"Demo Store","myshopify_domain":"demo.myshopify.com"}}`))
	}))
	defer srv.Close()

	client := NewShopifyClient(srv.URL, "tok", srv.Client())
	status, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if !status.Success || status.Shop != "Demo Store" {
		t.Errorf("status = %+v", status)
	}
}

func TestTestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewShopifyClient(srv.URL, "tok", srv.Client())
	status, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if status.Success {
		t.Error("expected Success=false on 403")
	}
}

func TestNewShopifyClientNormalizesURL(t *testing.T) {
	c := NewShopifyClient("demo.myshopify.com/", "tok", nil)
	if c.baseURL != "https://demo.myshopify.com" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
