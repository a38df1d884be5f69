package repo

import (
	"github.com/ecoprint/b2b-manager/internal/pg"
	ledgerrepo "github.com/ecoprint/b2b-manager/internal/repo/ledger-repo"
	orderrepo "github.com/ecoprint/b2b-manager/internal/repo/order-repo"
	productrepo "github.com/ecoprint/b2b-manager/internal/repo/product-repo"
	transactionrepo "github.com/ecoprint/b2b-manager/internal/repo/transaction-repo"
	userrepo "github.com/ecoprint/b2b-manager/internal/repo/user-repo"
	"github.com/ecoprint/b2b-manager/internal/service/authservice"
	"github.com/ecoprint/b2b-manager/internal/service/billingservice"
	"github.com/ecoprint/b2b-manager/internal/service/orderservice"
	"github.com/ecoprint/b2b-manager/internal/service/productservice"
)

type Repositories struct {
	OrderRepo       orderservice.Repo
	LedgerRepo      billingservice.LedgerRepo
	TransactionRepo billingservice.TransactionRepo
	ProductRepo     productservice.Repo
	UserRepo        authservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		OrderRepo:       orderrepo.New(conn, txManager),
		LedgerRepo:      ledgerrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
		ProductRepo:     productrepo.New(conn),
		UserRepo:        userrepo.New(conn),
	}
}
