package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ecoprint/b2b-manager/docs"
	authhandlers "github.com/ecoprint/b2b-manager/internal/handlers/auth"
	billinghandlers "github.com/ecoprint/b2b-manager/internal/handlers/billing"
	ordershandlers "github.com/ecoprint/b2b-manager/internal/handlers/orders"
	producthandlers "github.com/ecoprint/b2b-manager/internal/handlers/products"
	"github.com/ecoprint/b2b-manager/internal/service"
	"github.com/ecoprint/b2b-manager/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	ListOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	CreateOrder(w http.ResponseWriter, r *http.Request)
	UpdateOrder(w http.ResponseWriter, r *http.Request)
	UpdateOrderStatus(w http.ResponseWriter, r *http.Request)
	DeleteOrder(w http.ResponseWriter, r *http.Request)
	BulkOrders(w http.ResponseWriter, r *http.Request)
}

type BillingHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	ListTransactions(w http.ResponseWriter, r *http.Request)
	TopUp(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
}

type ProductHandler interface {
	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	OrderHandler   OrderHandler
	BillingHandler BillingHandler
	ProductHandler ProductHandler

	jwtService auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		OrderHandler:   ordershandlers.New(s.OrderService),
		BillingHandler: billinghandlers.New(s.BillingService),
		ProductHandler: producthandlers.New(s.ProductService),
		jwtService:     jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	authRequired := auth.Middleware(h.jwtService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.OrderHandler.ListOrders)
		r.Get("/{id}", h.OrderHandler.GetOrder)

		r.Group(func(r chi.Router) {
			r.Use(authRequired)
			r.Post("/", h.OrderHandler.CreateOrder)
			r.Post("/bulk", h.OrderHandler.BulkOrders)
			r.Put("/{id}", h.OrderHandler.UpdateOrder)
			r.Patch("/{id}/status", h.OrderHandler.UpdateOrderStatus)
			r.Delete("/{id}", h.OrderHandler.DeleteOrder)
		})
	})

	r.Route("/billing", func(r chi.Router) {
		r.Get("/balance", h.BillingHandler.GetBalance)
		r.Get("/transactions", h.BillingHandler.ListTransactions)

		r.Group(func(r chi.Router) {
			r.Use(authRequired)
			r.Post("/topup", h.BillingHandler.TopUp)
			r.Post("/withdraw", h.BillingHandler.Withdraw)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ProductHandler.ListProducts)
		r.Get("/{id}", h.ProductHandler.GetProduct)
	})

	return r
}
