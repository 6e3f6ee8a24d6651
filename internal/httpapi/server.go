// Package httpapi exposes the ordering system over HTTP. Handlers stay
// thin: decode, call into orders/notify, encode. All row-level
// semantics live in internal/orders.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/app"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/cache"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/notify"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
)

// Cache lifetimes. The short ones keep the list and bill screens
// near-realtime while still absorbing request bursts; the long ones
// cover data that changes a few times a day.
const (
	listCacheTTL      = 4 * time.Second
	billCacheTTL      = 4 * time.Second
	productCacheTTL   = 60 * time.Second
	reportCacheTTL    = 300 * time.Second
	recipientCacheTTL = 300 * time.Second
)

// Server holds the handler dependencies and the per-endpoint caches.
type Server struct {
	repo     *orders.Repository
	notifier *notify.Notifier

	listCache      *cache.Cache[[]orders.Summary]
	billCache      *cache.Cache[[]orders.BillLine]
	productCache   *cache.Cache[[]orders.StaffCard]
	reportCache    *cache.Cache[[]orders.Row]
	recipientCache *cache.Cache[map[string]string]
}

// NewServer wires a server. A nil clock means wall time; tests inject
// their own to step cache expiry.
func NewServer(repo *orders.Repository, notifier *notify.Notifier, clock cache.Clock) *Server {
	return &Server{
		repo:     repo,
		notifier: notifier,

		listCache:      cache.New[[]orders.Summary](listCacheTTL, clock),
		billCache:      cache.New[[]orders.BillLine](billCacheTTL, clock),
		productCache:   cache.New[[]orders.StaffCard](productCacheTTL, clock),
		reportCache:    cache.New[[]orders.Row](reportCacheTTL, clock),
		recipientCache: cache.New[map[string]string](recipientCacheTTL, clock),
	}
}

// Router assembles the chi router with CORS, request ids and request
// logging.
func (s *Server) Router(cfg app.Config) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestID)
	r.Use(requestLogger)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", s.handleSubmitOrder)
		r.Get("/orders", s.handleListOrders)
		r.Post("/orders/search", s.handleSearchOrders)
		r.Get("/orders/{code}", s.handleOrderDetail)
		r.Put("/orders/{code}", s.handleUpdateOrder)

		r.Get("/manage/orders", s.handleManagerOrders)
		r.Post("/manage/orders", s.handleManagerSave)
		r.Get("/manage/products", s.handleManagerProducts)

		r.Get("/bill/{code}", s.handleBill)
		r.Post("/bill/{code}/paid", s.handleMarkPaid)

		r.Post("/reviews", s.handleSubmitReview)
		r.Get("/products", s.handleProducts)

		r.Get("/report/rows", s.handleReportRows)
		r.Get("/report/day", s.handleReportDay)
	})

	return r
}
