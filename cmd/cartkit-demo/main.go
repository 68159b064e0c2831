// Command cartkit-demo runs the widget against an in-process host and a stub
// checkout endpoint, so the full add -> persist -> render -> checkout ->
// success-return loop can be exercised from curl.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hanko-field/cartkit"
	"github.com/hanko-field/cartkit/storage"
	"github.com/hanko-field/cartkit/trigger"
)

func main() {
	var (
		addr     string
		cfgPath  string
		redisURL string
	)
	port := os.Getenv("CARTKIT_DEMO_PORT")
	if port == "" {
		port = "8080"
	}
	flag.StringVar(&addr, "addr", ":"+port, "HTTP listen address")
	flag.StringVar(&cfgPath, "config", "", "widget config file (yaml)")
	flag.StringVar(&redisURL, "redis", os.Getenv("CARTKIT_DEMO_REDIS"), "Redis URL for the cart slot (in-memory when empty)")
	flag.Parse()

	logger, err := cartkit.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := cartkit.Config{
		APIKey:           "demo-key",
		CheckoutEndpoint: "http://127.0.0.1" + addr + "/checkout/session",
	}
	if cfgPath != "" {
		raw, err := os.ReadFile(cfgPath)
		if err != nil {
			logger.Fatal("read config", zap.Error(err))
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			logger.Fatal("parse config", zap.Error(err))
		}
	}

	var slot storage.Slot = storage.NewMemorySlot()
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Fatal("parse redis url", zap.Error(err))
		}
		ttl := time.Duration(cfg.CartLifetimeHours) * time.Hour
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		slot = storage.NewRedisSlot(redis.NewClient(opts), "cartkit:demo:snapshot", ttl)
	}

	host := newConsoleHost(logger)
	triggers := trigger.NewRegistry()

	widget, err := cartkit.New(host.ctx(), cfg, cartkit.Deps{
		Slot:       slot,
		Panel:      host,
		BadgeHosts: host.badgeHosts,
		Browser:    host,
		Notifier:   host,
		Triggers:   triggers,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("init widget", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Stub provider endpoint: answers the widget's session request the way a
	// real backend fronting Stripe would.
	r.Post("/checkout/session", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		logger.Info("stub session request", zap.Any("body", body))
		writeJSON(w, map[string]string{
			"url": "https://pay.example.com/session/" + uuid.NewString(),
		})
	})

	r.Post("/cart/add", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		triggers.Dispatch(r.Context(), trigger.Event{Attrs: map[string]string{
			trigger.AttrAdd:     "",
			trigger.AttrPriceID: q.Get("sku"),
			trigger.AttrName:    q.Get("name"),
			trigger.AttrPrice:   q.Get("price"),
			trigger.AttrImage:   q.Get("image"),
		}})
		writeCart(w, widget)
	})

	r.Post("/cart/quantity", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		quantity, _ := strconv.Atoi(q.Get("quantity"))
		widget.UpdateQuantity(r.Context(), q.Get("sku"), quantity)
		writeCart(w, widget)
	})

	r.Post("/cart/clear", func(w http.ResponseWriter, r *http.Request) {
		widget.Clear(r.Context())
		writeCart(w, widget)
	})

	r.Get("/cart", func(w http.ResponseWriter, _ *http.Request) {
		writeCart(w, widget)
	})

	r.Post("/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		if err := widget.StartCheckout(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]string{"redirect": host.lastNavigation()})
	})

	// Simulates the provider sending the customer back to the page.
	r.Post("/cart/return", func(w http.ResponseWriter, r *http.Request) {
		host.returnFromCheckout()
		widget.CheckSuccessOnLoad(r.Context())
		writeCart(w, widget)
	})

	logger.Info("cartkit-demo listening", zap.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func writeCart(w http.ResponseWriter, widget *cartkit.Widget) {
	writeJSON(w, map[string]any{
		"items": widget.Items(),
		"total": widget.Total(),
		"count": widget.Count(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
