package customer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	"github.com/soorihai2/ssksilks-sub001/internal/jsonstore"
)

type jsonfileRepo struct {
	col *jsonstore.Collection[*domain.Customer]
}

// NewJSONFile opens the customers collection under dataDir.
func NewJSONFile(dataDir string) (Repository, error) {
	col, err := jsonstore.Open[*domain.Customer](filepath.Join(dataDir, "customers.json"))
	if err != nil {
		return nil, err
	}
	return &jsonfileRepo{col: col}, nil
}

func (r *jsonfileRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	return r.col.Append(c)
}

func (r *jsonfileRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.col.Find(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *jsonfileRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	c, ok := r.col.FindBy(func(c *domain.Customer) bool { return c.Phone == phone })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *jsonfileRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c, ok := r.col.FindBy(func(c *domain.Customer) bool {
		return c.Email != "" && strings.EqualFold(c.Email, email)
	})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *jsonfileRepo) List(_ context.Context) ([]*domain.Customer, error) {
	return r.col.All(), nil
}

func (r *jsonfileRepo) Update(_ context.Context, id string, fn func(*domain.Customer)) (*domain.Customer, error) {
	c, ok, err := r.col.Update(id, fn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
