// Package customer resolves shopper identities for POS sales and
// guest-order linking, and keeps per-customer order statistics.
package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	custrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/customer"
)

type Service struct {
	repo custrepo.Repository
}

func New(repo custrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ResolveOrCreate finds a customer by exact phone match, creating a
// walk-in record with zero totals when none exists.
func (s *Service) ResolveOrCreate(ctx context.Context, phone, name string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, &domain.ValidationError{Fields: []string{"Customer phone is required"}}
	}
	c, err := s.repo.GetByPhone(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = domain.WalkInName
	}
	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.Customer{
		Phone:     phone,
		Name:      name,
		IsNew:     true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Resolve finds a customer by id first, then phone. ErrNotFound when
// neither matches.
func (s *Service) Resolve(ctx context.Context, id, phone string) (*domain.Customer, error) {
	if id != "" {
		c, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if phone != "" {
		return s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	}
	return nil, domain.ErrNotFound
}

// MatchGuest looks up a customer for a guest order: shipping email first,
// then phone. ErrNotFound when no customer matches.
func (s *Service) MatchGuest(ctx context.Context, addr *domain.ShippingAddress) (*domain.Customer, error) {
	if addr == nil {
		return nil, domain.ErrNotFound
	}
	if email := strings.TrimSpace(addr.Email); email != "" {
		c, err := s.repo.GetByEmail(ctx, email)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if phone := strings.TrimSpace(addr.Phone); phone != "" {
		return s.repo.GetByPhone(ctx, phone)
	}
	return nil, domain.ErrNotFound
}

// RecordOrder adds one order to the customer's running totals. A customer
// with a recorded order is no longer new.
func (s *Service) RecordOrder(ctx context.Context, customerID string, orderTotal int64) (*domain.Customer, error) {
	return s.repo.Update(ctx, customerID, func(c *domain.Customer) {
		c.TotalOrders++
		c.TotalSpent += orderTotal
		c.IsNew = false
		c.UpdatedAt = time.Now().UTC()
	})
}
