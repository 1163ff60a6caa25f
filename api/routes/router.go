package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camisetia/storefront/api/controllers"
	cartcontrollers "github.com/camisetia/storefront/api/controllers/cart"
	selectioncontrollers "github.com/camisetia/storefront/api/controllers/selection"
	"github.com/camisetia/storefront/api/controllers/sessionctx"
	"github.com/camisetia/storefront/api/middleware"
	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/checkout"
	"github.com/camisetia/storefront/pkg/config"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient redis.Pinger,
	gatherer prometheus.Gatherer,
	cat *catalog.Catalog,
	sessions sessionctx.Resolver,
	formatter *checkout.Formatter,
) http.Handler {
	r := chi.NewRouter()
	if cfg.App.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogFetch(cat, logg))
			r.Get("/garments/{garmentId}/colors", controllers.CatalogGarmentColors(cat, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session.CookieName, cfg.App.IsProd(), logg))

			r.Route("/selection", func(r chi.Router) {
				r.Get("/", selectioncontrollers.SelectionFetch(sessions, logg))
				r.Post("/reset", selectioncontrollers.SelectionReset(sessions, logg))
				r.Put("/garment", selectioncontrollers.SelectGarment(sessions, logg))
				r.Put("/size", selectioncontrollers.SelectSize(sessions, logg))
				r.Put("/color", selectioncontrollers.SelectColor(sessions, logg))
				r.Put("/design", selectioncontrollers.SelectDesign(sessions, logg))
				r.Route("/ai", func(r chi.Router) {
					r.Put("/prompt", selectioncontrollers.SetPrompt(sessions, logg))
					r.Put("/style", selectioncontrollers.SetStyle(sessions, logg))
					r.Put("/background", selectioncontrollers.SetBackground(sessions, logg))
					r.Post("/generate", selectioncontrollers.Generate(sessions, logg))
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(sessions, logg))
				r.Delete("/", cartcontrollers.CartClear(sessions, logg))
				r.Post("/items", cartcontrollers.CartCommit(sessions, logg))
				r.Patch("/items/{itemId}", cartcontrollers.CartSetQuantity(sessions, logg))
				r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(sessions, logg))
			})

			r.Get("/checkout/whatsapp", controllers.CheckoutWhatsApp(sessions, formatter, logg))
		})
	})

	return r
}
