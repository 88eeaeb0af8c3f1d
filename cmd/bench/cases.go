// README: Bench cases driving the add -> price -> order -> assign flow over HTTP.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Result struct {
	Name    string
	Status  string // PASS, FAIL, SKIP
	Note    string
	Elapsed time.Duration
}

type Runner struct {
	cfg    Config
	client *http.Client
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	results := []Result{r.run(ctx, "health", r.caseHealth)}
	if r.cfg.CustomerID == "" || r.cfg.ItemID == "" || r.cfg.VendorName == "" {
		results = append(results, Result{
			Name:   "cart_order_flow",
			Status: "SKIP",
			Note:   "set -customer-id, -item-id and -vendor-name to run the flow",
		})
		return results
	}
	results = append(results,
		r.run(ctx, "cart_add_line", r.caseAddLine),
		r.run(ctx, "cart_duplicate_rejected", r.caseDuplicateRejected),
		r.run(ctx, "cart_price", r.casePriceCart),
		r.run(ctx, "order_create", r.caseCreateOrders),
		r.run(ctx, "vendor_notifications", r.caseVendorNotifications),
		r.run(ctx, "cart_cleanup", r.caseClearCart),
	)
	return results
}

func (r *Runner) run(ctx context.Context, name string, fn func(context.Context) error) Result {
	start := time.Now()
	err := fn(ctx)
	res := Result{Name: name, Status: "PASS", Elapsed: time.Since(start)}
	if err != nil {
		res.Status = "FAIL"
		res.Note = err.Error()
	}
	return res
}

func (r *Runner) caseHealth(ctx context.Context) error {
	status, _, err := r.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", status)
	}
	return nil
}

func (r *Runner) caseAddLine(ctx context.Context) error {
	status, _, err := r.do(ctx, http.MethodPost, "/api/cart/items", map[string]any{
		"customerId": r.cfg.CustomerID,
		"itemId":     r.cfg.ItemID,
		"quantity":   1,
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expected 201, got %d", status)
	}
	return nil
}

func (r *Runner) caseDuplicateRejected(ctx context.Context) error {
	status, _, err := r.do(ctx, http.MethodPost, "/api/cart/items", map[string]any{
		"customerId": r.cfg.CustomerID,
		"itemId":     r.cfg.ItemID,
		"quantity":   1,
	})
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest {
		return fmt.Errorf("expected 400 on duplicate add, got %d", status)
	}
	return nil
}

func (r *Runner) casePriceCart(ctx context.Context) error {
	status, body, err := r.do(ctx, http.MethodPost, "/api/cart/"+r.cfg.CustomerID+"/delivery-fee", map[string]any{
		"vendorNames": []string{r.cfg.VendorName},
		"latitude":    -1.2921,
		"longitude":   36.8219,
		"orderDate":   time.Now().Format("2006-01-02"),
		"orderTime":   "12:30",
		"street":      "Bench Street",
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d: %s", status, body)
	}
	var resp struct {
		Fees map[string]int64 `json:"vendorDeliveryFees"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return err
	}
	fee, ok := resp.Fees[r.cfg.VendorName]
	if !ok {
		return fmt.Errorf("no fee returned for %s", r.cfg.VendorName)
	}
	if fee%5 != 0 {
		return fmt.Errorf("fee %d is not a multiple of 5", fee)
	}
	return nil
}

func (r *Runner) caseCreateOrders(ctx context.Context) error {
	status, body, err := r.do(ctx, http.MethodPost, "/api/orders", map[string]any{
		"customerId":  r.cfg.CustomerID,
		"vendorNames": []string{r.cfg.VendorName},
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d: %s", status, body)
	}
	var orders []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &orders); err != nil {
		return err
	}
	if len(orders) != 1 {
		return fmt.Errorf("expected 1 order, got %d", len(orders))
	}
	if orders[0].Status != "Pending" {
		return fmt.Errorf("expected Pending, got %s", orders[0].Status)
	}
	return nil
}

func (r *Runner) caseVendorNotifications(ctx context.Context) error {
	// The vendor id is not known here, so just exercise the list-by-vendor
	// order query the dashboard uses right after a notification.
	status, _, err := r.do(ctx, http.MethodGet, "/api/orders?vendorName="+r.cfg.VendorName, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", status)
	}
	return nil
}

func (r *Runner) caseClearCart(ctx context.Context) error {
	// Order creation absorbed the vendor's lines; clearing again should
	// report an empty cart unless other vendors' lines remain.
	status, _, err := r.do(ctx, http.MethodDelete, "/api/cart/"+r.cfg.CustomerID, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusBadRequest {
		return fmt.Errorf("expected 200 or 400, got %d", status)
	}
	return nil
}

func (r *Runner) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, err
}
