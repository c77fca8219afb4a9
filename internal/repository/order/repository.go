package order

import (
	"context"
	"time"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, ref string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, id string, fn func(*domain.Order)) (*domain.Order, error)
	PurgeFailedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
