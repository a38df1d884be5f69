package productservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/query"
)

//go:generate mockgen -source=productservice.go -destination=productservice_mock.go -package=productservice

type Repo interface {
	Find(ctx context.Context, f query.Filter) ([]domain.Product, int, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f query.Filter) ([]domain.Product, int, error) {
	products, total, err := s.repo.Find(ctx, f)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get product", zap.Error(err))
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
