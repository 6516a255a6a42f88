package router

import (
	"net/http"
	"net/url"
	"strings"

	"sales-order-booking/internal/handler"
	"sales-order-booking/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// ProductsPath is the product-selection view unknown pages redirect to.
const ProductsPath = "/products"

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Sessions *handler.SessionHandler
	Profile  *handler.ProfileHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
}

// Options configures optional routes.
type Options struct {
	// AttachmentsDir is served under AttachmentsPath when set. AttachmentsPath
	// may be an absolute URL, in which case only its path is routed.
	AttachmentsDir  string
	AttachmentsPath string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Applied in order: Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.Sessions.Create)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.Sessions.Get)
			r.Delete("/", h.Sessions.Delete)
			r.Post("/restart", h.Sessions.Restart)

			r.Patch("/profile", h.Profile.Patch)
			r.Put("/profile/attachment", h.Profile.PutAttachment)
			r.Delete("/profile/attachment", h.Profile.DeleteAttachment)

			r.Get("/cart", h.Cart.Get)
			r.Put("/cart", h.Cart.Replace)
			r.Delete("/cart", h.Cart.Clear)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Patch("/cart/items/{cartID}", h.Cart.UpdateQty)
			r.Delete("/cart/items/{cartID}", h.Cart.RemoveItem)
			r.Put("/cart/prices/{index}", h.Cart.UpdatePrice)

			r.Get("/checkout", h.Checkout.Preview)
			r.Post("/checkout", h.Checkout.Confirm)
		})

		r.Get("/products", h.Products.Search)
		r.Get("/products/{productID}", h.Products.GetByID)

		r.Get("/orders", h.Orders.List)
		r.Get("/orders/{orderID}", h.Orders.GetByID)
	})

	if opts.AttachmentsDir != "" {
		prefix := attachmentsPrefix(opts.AttachmentsPath)
		files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(opts.AttachmentsDir)))
		r.Get(prefix+"/*", files.ServeHTTP)
	}

	r.NotFound(middleware.NotFound(ProductsPath))

	return r
}

func attachmentsPrefix(base string) string {
	if u, err := url.Parse(base); err == nil {
		base = u.Path
	}
	return "/" + strings.Trim(base, "/")
}
