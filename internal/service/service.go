package service

import (
	authhandlers "github.com/ecoprint/b2b-manager/internal/handlers/auth"
	billinghandlers "github.com/ecoprint/b2b-manager/internal/handlers/billing"
	ordershandlers "github.com/ecoprint/b2b-manager/internal/handlers/orders"
	producthandlers "github.com/ecoprint/b2b-manager/internal/handlers/products"

	"github.com/ecoprint/b2b-manager/internal/pg"
	"github.com/ecoprint/b2b-manager/internal/repo"
	"github.com/ecoprint/b2b-manager/internal/service/authservice"
	"github.com/ecoprint/b2b-manager/internal/service/billingservice"
	"github.com/ecoprint/b2b-manager/internal/service/orderservice"
	"github.com/ecoprint/b2b-manager/internal/service/productservice"
	pkgauth "github.com/ecoprint/b2b-manager/pkg/auth"
)

type Services struct {
	AuthService    authhandlers.Service
	OrderService   ordershandlers.Service
	BillingService billinghandlers.Service
	ProductService producthandlers.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, notifier orderservice.Notifier, jwtService pkgauth.JWTServiceInterface) *Services {
	orderService := orderservice.New(repo.OrderRepo, notifier)
	billingService := billingservice.New(repo.LedgerRepo, repo.TransactionRepo, txManager)
	productService := productservice.New(repo.ProductRepo)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, jwtService)

	return &Services{
		AuthService:    authService,
		OrderService:   orderService,
		BillingService: billingService,
		ProductService: productService,
	}
}
