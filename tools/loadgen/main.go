// Command loadgen drives checkout traffic against a running POS backend.
// It seeds a small catalog, then runs concurrent register sessions that
// build a cart, apply an occasional discount and commit the sale, and
// prints a latency report per operation when the run finishes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/optica-neyra/tools/loadgen/internal/metrics"
)

type options struct {
	baseURL  string
	workers  int
	duration time.Duration
	products int
	seed     int64
}

func main() {
	var opts options
	flag.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the POS backend")
	flag.IntVar(&opts.workers, "workers", 4, "Concurrent register sessions")
	flag.DurationVar(&opts.duration, "duration", 30*time.Second, "How long to run")
	flag.IntVar(&opts.products, "products", 20, "Catalog size to seed before the run")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	productIDs, err := seedCatalog(client, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d products, running %d workers for %s\n", len(productIDs), opts.workers, opts.duration)

	rec := metrics.NewRecorder()
	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < opts.workers; w++ {
		wg.Add(1)
		go func(workerSeed int64) {
			defer wg.Done()
			runWorker(ctx, client, opts.baseURL, productIDs, rec, rand.New(rand.NewSource(workerSeed)))
		}(opts.seed + int64(w))
	}
	wg.Wait()

	fmt.Println()
	for _, s := range rec.Summaries() {
		fmt.Println(s)
	}
}

// envelope matches the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func seedCatalog(client *http.Client, opts options) ([]string, error) {
	rng := rand.New(rand.NewSource(opts.seed))
	runID := time.Now().Unix()

	ids := make([]string, 0, opts.products)
	for i := 0; i < opts.products; i++ {
		body := map[string]any{
			"code":              fmt.Sprintf("LG-%d-%04d", runID, i),
			"name":              fmt.Sprintf("Producto de prueba %04d", i),
			"category":          []string{"Monturas", "Lunas", "Accesorios"}[i%3],
			"supplier":          "Loadgen",
			"unit_price":        fmt.Sprintf("%d.%02d", 20+rng.Intn(300), rng.Intn(100)),
			"initial_stock":     100000,
			"reorder_threshold": 10,
		}
		data, status, err := doJSON(client, http.MethodPost, opts.baseURL+"/api/v1/catalog/products", body)
		if err != nil {
			return nil, err
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("unexpected status %d creating product", status)
		}
		var product struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &product); err != nil {
			return nil, err
		}
		ids = append(ids, product.ID)
	}
	return ids, nil
}

func runWorker(ctx context.Context, client *http.Client, baseURL string, productIDs []string, rec *metrics.Recorder, rng *rand.Rand) {
	for ctx.Err() == nil {
		if err := runSession(client, baseURL, productIDs, rec, rng); err != nil {
			// Session errors are already counted per operation; back off a
			// little so a down server does not spin the worker.
			select {
			case <-ctx.Done():
			case <-time.After(200 * time.Millisecond):
			}
		}
	}
}

// runSession plays one customer at the register: open a cart, scan a few
// items, sometimes set a discount, pay cash and commit.
func runSession(client *http.Client, baseURL string, productIDs []string, rec *metrics.Recorder, rng *rand.Rand) error {
	data, err := timedCall(client, rec, "create_cart", http.MethodPost, baseURL+"/api/v1/checkout/carts", nil, http.StatusCreated)
	if err != nil {
		return err
	}
	var cart struct {
		CartID string `json:"cart_id"`
	}
	if err := json.Unmarshal(data, &cart); err != nil {
		return err
	}
	cartURL := baseURL + "/api/v1/checkout/carts/" + cart.CartID

	items := 1 + rng.Intn(4)
	for i := 0; i < items; i++ {
		body := map[string]any{
			"product_id": productIDs[rng.Intn(len(productIDs))],
			"quantity":   1 + rng.Intn(3),
		}
		if _, err := timedCall(client, rec, "add_item", http.MethodPost, cartURL+"/items", body, http.StatusOK); err != nil {
			return err
		}
	}

	if rng.Intn(5) == 0 {
		body := map[string]any{"percent": fmt.Sprintf("%d", 5+rng.Intn(15))}
		if _, err := timedCall(client, rec, "set_discount", http.MethodPut, cartURL+"/discount", body, http.StatusOK); err != nil {
			return err
		}
	}

	data, err = timedCall(client, rec, "get_totals", http.MethodGet, cartURL+"/totals", nil, http.StatusOK)
	if err != nil {
		return err
	}
	var cartState struct {
		Totals struct {
			Total string `json:"total"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(data, &cartState); err != nil {
		return err
	}

	commit := map[string]any{
		"payment": map[string]any{
			"method":          "cash",
			"amount_tendered": "100000.00",
		},
	}
	_, err = timedCall(client, rec, "commit", http.MethodPost, cartURL+"/commit", commit, http.StatusCreated)
	return err
}

func timedCall(client *http.Client, rec *metrics.Recorder, op, method, url string, body any, wantStatus int) (json.RawMessage, error) {
	start := time.Now()
	data, status, err := doJSON(client, method, url, body)
	if err != nil || status != wantStatus {
		rec.RecordError(op)
		if err == nil {
			err = fmt.Errorf("%s: unexpected status %d", op, status)
		}
		return nil, err
	}
	rec.Record(op, time.Since(start))
	return data, nil
}

func doJSON(client *http.Client, method, url string, body any) (json.RawMessage, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, resp.StatusCode, err
	}
	return env.Data, resp.StatusCode, nil
}
