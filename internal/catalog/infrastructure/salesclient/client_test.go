package salesclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecomflow/catalog-service/pkg/correlation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requestCtx() context.Context {
	return correlation.With(context.Background(), correlation.Correlation{
		TransactionID: "T1",
		ServiceID:     "svc-1",
		Token:         "bearer abc",
	})
}

func TestFindSalesByProductID(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"salesIds":["S1","S2"]}`))
	}))
	defer srv.Close()

	c := New(testLogger(), srv.URL)
	salesIDs, err := c.FindSalesByProductID(requestCtx(), 7)
	if err != nil {
		t.Fatalf("FindSalesByProductID: %v", err)
	}
	if len(salesIDs) != 2 || salesIDs[0] != "S1" {
		t.Fatalf("unexpected sales ids %v", salesIDs)
	}
	if gotPath != "/api/orders/products/7" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotHeaders.Get("Authorization") != "bearer abc" {
		t.Fatal("Authorization token not forwarded verbatim")
	}
	if gotHeaders.Get("transactionid") != "T1" {
		t.Fatal("transactionid header not forwarded")
	}
	if gotHeaders.Get("serviceid") != "svc-1" {
		t.Fatal("serviceid header not forwarded")
	}
}

func TestFindSalesByProductIDErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testLogger(), srv.URL)
	if _, err := c.FindSalesByProductID(requestCtx(), 7); err == nil {
		t.Fatal("server error reported as success")
	}
}

func TestFindSalesByProductIDTimeoutIsAFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(testLogger(), srv.URL)
	c.http.Timeout = 20 * time.Millisecond

	if _, err := c.FindSalesByProductID(requestCtx(), 7); err == nil {
		t.Fatal("timeout reported as success")
	}
}

func TestFindSalesByProductIDRequiresScope(t *testing.T) {
	c := New(testLogger(), "http://localhost:0")
	_, err := c.FindSalesByProductID(context.Background(), 7)
	if !errors.Is(err, correlation.ErrNoContext) {
		t.Fatalf("got %v, want ErrNoContext", err)
	}
}
