package order

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	"github.com/soorihai2/ssksilks-sub001/internal/jsonstore"
)

type jsonfileRepo struct {
	col *jsonstore.Collection[*domain.Order]
}

// NewJSONFile opens the orders collection under dataDir.
func NewJSONFile(dataDir string) (Repository, error) {
	col, err := jsonstore.Open[*domain.Order](filepath.Join(dataDir, "orders.json"))
	if err != nil {
		return nil, err
	}
	return &jsonfileRepo{col: col}, nil
}

func (r *jsonfileRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	return r.col.Append(o)
}

func (r *jsonfileRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.col.Find(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *jsonfileRepo) GetByGatewayOrderID(_ context.Context, ref string) (*domain.Order, error) {
	o, ok := r.col.FindBy(func(o *domain.Order) bool { return o.GatewayOrderID == ref })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// List returns every order, newest first.
func (r *jsonfileRepo) List(_ context.Context) ([]*domain.Order, error) {
	all := r.col.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (r *jsonfileRepo) Update(_ context.Context, id string, fn func(*domain.Order)) (*domain.Order, error) {
	o, ok, err := r.col.Update(id, fn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// PurgeFailedBefore removes orders whose payment failed and which have not
// been touched since cutoff.
func (r *jsonfileRepo) PurgeFailedBefore(_ context.Context, cutoff time.Time) (int, error) {
	return r.col.RemoveBy(func(o *domain.Order) bool {
		return o.PaymentStatus == domain.PaymentFailed && o.UpdatedAt.Before(cutoff)
	})
}
