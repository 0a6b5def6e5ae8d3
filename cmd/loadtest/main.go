// Команда loadtest наполняет работающий CRM-сервис правдоподобными данными
// и снимает сводку по задержкам HTTP-вызовов. Используется для ручной
// проверки и нагрузочных прогонов на стенде.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

type config struct {
	addr      string
	sellers   int
	products  int
	customers int
	orders    int
	timeout   time.Duration
	seed      uint64
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P95 float64 `json:"p95"`
}

type report struct {
	StartedAt       time.Time                 `json:"started_at"`
	DurationSeconds float64                   `json:"duration_seconds"`
	Calls           int64                     `json:"calls"`
	Failed          int64                     `json:"failed"`
	Methods         map[string]latencySummary `json:"latency_ms_by_call"`
}

type collector struct {
	mu        sync.Mutex
	calls     int64
	failed    int64
	latencies map[string][]float64
}

func newCollector() *collector {
	return &collector{latencies: make(map[string][]float64)}
}

func (c *collector) record(call string, latency time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if !ok {
		c.failed++
	}
	c.latencies[call] = append(c.latencies[call], float64(latency.Microseconds())/1000.0)
}

func (c *collector) report(startedAt time.Time) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	rep := report{
		StartedAt:       startedAt,
		DurationSeconds: time.Since(startedAt).Seconds(),
		Calls:           c.calls,
		Failed:          c.failed,
		Methods:         make(map[string]latencySummary, len(c.latencies)),
	}
	for call, values := range c.latencies {
		rep.Methods[call] = summarize(values)
	}
	return rep
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	p95 := sorted[int(math.Ceil(0.95*float64(len(sorted))))-1]
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P95: p95,
	}
}

// client — тонкая обёртка над API сервиса с аутентификацией.
type client struct {
	base    string
	http    *http.Client
	token   string
	metrics *collector
}

func (c *client) call(name, method, path string, body any, out any) bool {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.metrics.record(name, 0, false)
			return false
		}
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.metrics.record(name, 0, false)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.metrics.record(name, latency, false)
		return false
	}
	defer resp.Body.Close()

	ok := resp.StatusCode < 400
	if ok && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			ok = false
		}
	}
	c.metrics.record(name, latency, ok)
	return ok
}

type idResponse struct {
	ID string `json:"id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func runScenario(cfg config, metrics *collector) error {
	faker := gofakeit.New(cfg.seed)

	for s := 0; s < cfg.sellers; s++ {
		cl := &client{
			base:    cfg.addr,
			http:    &http.Client{Timeout: cfg.timeout},
			metrics: metrics,
		}

		email := faker.Email()
		password := faker.Password(true, true, true, false, false, 12)
		if !cl.call("register", http.MethodPost, "/auth/register", map[string]string{
			"email":    email,
			"name":     faker.FirstName(),
			"surname":  faker.LastName(),
			"password": password,
		}, nil) {
			return fmt.Errorf("seller registration failed, is the service running at %s?", cfg.addr)
		}

		var tok tokenResponse
		if !cl.call("login", http.MethodPost, "/auth/login", map[string]string{
			"email":    email,
			"password": password,
		}, &tok) {
			return fmt.Errorf("login failed for %s", email)
		}
		cl.token = tok.Token

		productIDs := make([]string, 0, cfg.products)
		for p := 0; p < cfg.products; p++ {
			var created idResponse
			if cl.call("create_product", http.MethodPost, "/products", map[string]any{
				"name":          faker.ProductName(),
				"price_minor":   int64(faker.Number(100, 100000)),
				"available_qty": int64(faker.Number(50, 500)),
			}, &created) {
				productIDs = append(productIDs, created.ID)
			}
		}

		customerIDs := make([]string, 0, cfg.customers)
		for c := 0; c < cfg.customers; c++ {
			var created idResponse
			if cl.call("create_customer", http.MethodPost, "/customers", map[string]string{
				"name":    faker.FirstName(),
				"surname": faker.LastName(),
				"company": faker.Company(),
				"email":   faker.Email(),
				"phone":   faker.Phone(),
			}, &created) {
				customerIDs = append(customerIDs, created.ID)
			}
		}

		if len(productIDs) == 0 || len(customerIDs) == 0 {
			continue
		}

		for o := 0; o < cfg.orders; o++ {
			items := []map[string]any{{
				"product_id": productIDs[faker.Number(0, len(productIDs)-1)],
				"qty":        faker.Number(1, 3),
			}}

			var created idResponse
			if !cl.call("create_order", http.MethodPost, "/orders", map[string]any{
				"customer_id": customerIDs[faker.Number(0, len(customerIDs)-1)],
				"items":       items,
			}, &created) {
				continue
			}

			// Примерно две трети заказов закрываем как продажи
			if faker.Number(1, 3) != 1 {
				cl.call("complete_order", http.MethodPut, "/orders/"+created.ID, map[string]string{
					"status": "COMPLETED",
				}, nil)
			}
		}

		cl.call("top_customers", http.MethodGet, "/reports/top-customers", nil, nil)
		cl.call("top_sellers", http.MethodGet, "/reports/top-sellers", nil, nil)
	}

	return nil
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.addr, "addr", "http://localhost:8080", "base URL of the running service")
	flag.IntVar(&cfg.sellers, "sellers", 3, "number of sellers to register")
	flag.IntVar(&cfg.products, "products", 10, "products per seller")
	flag.IntVar(&cfg.customers, "customers", 5, "customers per seller")
	flag.IntVar(&cfg.orders, "orders", 20, "orders per seller")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Uint64Var(&cfg.seed, "seed", 0, "faker seed (0 = random)")
	flag.Parse()

	startedAt := time.Now()
	metrics := newCollector()

	if err := runScenario(cfg, metrics); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metrics.report(startedAt)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
