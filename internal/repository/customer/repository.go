package customer

import (
	"context"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, id string, fn func(*domain.Customer)) (*domain.Customer, error)
}
