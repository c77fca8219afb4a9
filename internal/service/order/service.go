// Package order owns the order lifecycle: creation against the payment
// gateway, idempotent payment verification, POS sales, status updates and
// the failed-order sweep.
package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	"github.com/soorihai2/ssksilks-sub001/internal/gateway"
	"github.com/soorihai2/ssksilks-sub001/internal/notify"
	orderrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/order"
)

// Currency the gateway is billed in.
const currency = "INR"

// FailedRetention is how long a failed-payment order is kept before the
// sweep removes it.
const FailedRetention = 24 * time.Hour

type settingsReader interface {
	Read(ctx context.Context) (*domain.Settings, error)
}

type gatewayClient interface {
	CreateOrder(ctx context.Context, amountRupees int64, currency, receipt string) (string, error)
	FetchPayment(ctx context.Context, paymentRef string) (*gateway.Payment, error)
}

type customerDirectory interface {
	Resolve(ctx context.Context, id, phone string) (*domain.Customer, error)
	ResolveOrCreate(ctx context.Context, phone, name string) (*domain.Customer, error)
	MatchGuest(ctx context.Context, addr *domain.ShippingAddress) (*domain.Customer, error)
	RecordOrder(ctx context.Context, customerID string, orderTotal int64) (*domain.Customer, error)
}

// GatewayFactory builds a gateway client from the credentials currently in
// settings. Settings are re-read per operation, so credentials rotate
// without a restart.
type GatewayFactory func(creds gateway.Credentials) gatewayClient

// Options tune the service.
type Options struct {
	AllowTestOrders bool
	GatewayBaseURL  string
	GatewayTimeout  time.Duration
}

type Service struct {
	repo       orderrepo.Repository
	customers  customerDirectory
	settings   settingsReader
	dispatcher notify.Dispatcher
	newGateway GatewayFactory
	logger     logrus.FieldLogger
	locks      *keyedLocks
	opts       Options
}

func New(repo orderrepo.Repository, customers customerDirectory, settings settingsReader,
	dispatcher notify.Dispatcher, logger logrus.FieldLogger, opts Options) *Service {
	s := &Service{
		repo:       repo,
		customers:  customers,
		settings:   settings,
		dispatcher: dispatcher,
		logger:     logger,
		locks:      newKeyedLocks(),
		opts:       opts,
	}
	s.newGateway = func(creds gateway.Credentials) gatewayClient {
		return gateway.New(creds, opts.GatewayBaseURL, opts.GatewayTimeout)
	}
	return s
}

type ItemInput struct {
	ProductID  string `json:"productId"`
	CategoryID string `json:"categoryId,omitempty"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

type CreateInput struct {
	Items           []ItemInput             `json:"items"`
	Total           int64                   `json:"total"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
	CouponCode      string                  `json:"couponCode,omitempty"`
	Guest           bool                    `json:"guest,omitempty"`
	IsTestOrder     bool                    `json:"isTestOrder,omitempty"`
	SendTestEmails  bool                    `json:"sendTestEmails,omitempty"`
}

type CreateResult struct {
	OrderID        string `json:"id"`
	GatewayOrderID string `json:"gatewayOrderId,omitempty"`
	Amount         int64  `json:"amount"`
	KeyID          string `json:"keyId,omitempty"`
	EmailStatus    string `json:"emailStatus,omitempty"`
}

// Create validates the cart and shipping address, registers a remote order
// with the gateway, and only then persists the local order in
// pending/pending. A gateway failure therefore leaves no local order
// behind.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.IsTestOrder {
		return s.createTestOrder(ctx, in)
	}

	items, subtotal, violations := buildItems(in.Items)
	violations = append(violations, validateAddress(in.ShippingAddress)...)
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Fields: violations}
	}

	cfg, err := s.settings.Read(ctx)
	if err != nil {
		return nil, err
	}
	offer := bestOffer(items, subtotal, in.CouponCode, cfg.Offers)
	discount := discountAmount(subtotal, offer)
	total := subtotal - discount
	if total <= 0 {
		return nil, &domain.ValidationError{Fields: []string{"Order total must be greater than zero"}}
	}
	if in.Total != 0 && in.Total != total {
		return nil, &domain.ValidationError{Fields: []string{"Order total does not match the priced cart"}}
	}
	if cfg.Payment.KeyID == "" || cfg.Payment.KeySecret == "" {
		return nil, &domain.ConfigurationError{Section: "payment"}
	}

	origin := domain.OriginOnline
	if in.Guest {
		origin = domain.OriginGuest
	}
	now := time.Now().UTC()
	o := &domain.Order{
		ID:              uuid.NewString(),
		Items:           items,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
		ShippingAddress: in.ShippingAddress,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		Origin:          origin,
		AppliedOffer:    offer,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	gw := s.newGateway(gateway.Credentials{KeyID: cfg.Payment.KeyID, KeySecret: cfg.Payment.KeySecret})
	ref, err := gw.CreateOrder(ctx, total, currency, o.ID)
	if err != nil {
		return nil, err
	}
	o.GatewayOrderID = ref

	o, err = s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "gateway_order_id": ref, "amount": total}).Info("order created")

	return &CreateResult{
		OrderID:        o.ID,
		GatewayOrderID: ref,
		Amount:         total,
		KeyID:          cfg.Payment.KeyID,
	}, nil
}

// createTestOrder persists an order without validation or gateway
// involvement, to exercise the notification path. Guarded by server
// configuration; the request flag alone is not enough.
func (s *Service) createTestOrder(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if !s.opts.AllowTestOrders {
		return nil, &domain.ValidationError{Fields: []string{"Test orders are disabled"}}
	}
	items, subtotal, _ := buildItems(in.Items)
	now := time.Now().UTC()
	o, err := s.repo.Create(ctx, &domain.Order{
		Items:           items,
		Subtotal:        subtotal,
		Total:           subtotal,
		ShippingAddress: in.ShippingAddress,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		Origin:          domain.OriginOnline,
		IsTestOrder:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	res := &CreateResult{OrderID: o.ID, Amount: o.Total}
	if in.SendTestEmails {
		out := s.dispatcher.OrderConfirmation(ctx, o)
		res.EmailStatus = out.Status
	}
	s.logger.WithField("order_id", o.ID).Info("test order created")
	return res, nil
}

type VerifyInput struct {
	PaymentRef string `json:"razorpay_payment_id"`
	OrderRef   string `json:"razorpay_order_id,omitempty"`
	Signature  string `json:"razorpay_signature,omitempty"`
}

type VerifyResult struct {
	Order       *domain.Order `json:"order"`
	AlreadyPaid bool          `json:"alreadyPaid,omitempty"`
	EmailStatus string        `json:"emailStatus"`
	EmailError  string        `json:"emailError,omitempty"`
}

// VerifyPayment confirms a payment against the stored order. Calls for the
// same order are serialized, and an already-paid order returns success
// without re-verifying or re-notifying, so client retries are idempotent.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	if strings.TrimSpace(in.PaymentRef) == "" {
		return nil, &domain.ValidationError{Fields: []string{"Payment id is required"}}
	}

	cfg, err := s.settings.Read(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Payment.KeyID == "" || cfg.Payment.KeySecret == "" {
		return nil, &domain.ConfigurationError{Section: "payment"}
	}
	gw := s.newGateway(gateway.Credentials{KeyID: cfg.Payment.KeyID, KeySecret: cfg.Payment.KeySecret})

	// Locate the order. The stored gateway order ref is the correlation
	// key; the gateway's own payment lookup is the fallback, and counts as
	// authenticated since only our credentials can perform it.
	orderRef := strings.TrimSpace(in.OrderRef)
	trusted := false
	if orderRef == "" {
		p, err := gw.FetchPayment(ctx, in.PaymentRef)
		if err != nil {
			return nil, err
		}
		orderRef = p.OrderID
		trusted = true
	}
	// POS and test orders carry no gateway ref; an empty key must not
	// match them.
	if orderRef == "" {
		return nil, domain.ErrNotFound
	}
	o, err := s.repo.GetByGatewayOrderID(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	s.locks.lock(o.ID)
	defer s.locks.unlock(o.ID)

	// Re-read under the lock: a concurrent retry may have won the race.
	o, err = s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == domain.PaymentPaid {
		return &VerifyResult{Order: o, AlreadyPaid: true, EmailStatus: notify.StatusSkipped}, nil
	}

	if !trusted {
		if in.Signature != "" {
			if !gateway.VerifySignature(in.Signature, o.GatewayOrderID, in.PaymentRef, cfg.Payment.KeySecret) {
				failed, uerr := s.repo.Update(ctx, o.ID, func(o *domain.Order) {
					_ = o.Transition("", domain.PaymentFailed)
				})
				if uerr != nil {
					return nil, uerr
				}
				s.logger.WithField("order_id", failed.ID).Warn("payment signature mismatch")
				return nil, domain.ErrSignatureMismatch
			}
		} else {
			// No signature supplied: authenticate through the gateway's
			// payment lookup instead of waving the request through.
			p, err := gw.FetchPayment(ctx, in.PaymentRef)
			if err != nil {
				return nil, err
			}
			if p.OrderID != o.GatewayOrderID {
				return nil, domain.ErrSignatureMismatch
			}
		}
	}

	now := time.Now().UTC()
	o, err = s.repo.Update(ctx, o.ID, func(o *domain.Order) {
		_ = o.Transition(domain.StatusProcessing, domain.PaymentPaid)
		o.GatewayPaymentID = in.PaymentRef
		o.PaidAt = &now
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "payment_id": in.PaymentRef}).Info("payment verified")

	o = s.linkGuest(ctx, o)

	res := &VerifyResult{Order: o}
	out := s.dispatcher.OrderConfirmation(ctx, o)
	res.EmailStatus = out.Status
	if out.Err != nil {
		res.EmailError = out.Err.Error()
	}
	return res, nil
}

// linkGuest reclassifies a guest order to online when the shipping email
// or phone matches a known customer. Failures are logged and swallowed:
// linking never fails a verified payment.
func (s *Service) linkGuest(ctx context.Context, o *domain.Order) *domain.Order {
	if o.Origin != domain.OriginGuest {
		return o
	}
	c, err := s.customers.MatchGuest(ctx, o.ShippingAddress)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithField("order_id", o.ID).WithError(err).Warn("guest linking failed")
		}
		return o
	}
	linked, err := s.repo.Update(ctx, o.ID, func(o *domain.Order) {
		o.Origin = domain.OriginOnline
		o.CustomerID = c.ID
		o.UpdatedAt = time.Now().UTC()
	})
	if err != nil {
		s.logger.WithField("order_id", o.ID).WithError(err).Warn("guest linking failed")
		return o
	}
	if _, err := s.customers.RecordOrder(ctx, c.ID, linked.Total); err != nil {
		s.logger.WithField("customer_id", c.ID).WithError(err).Warn("customer stats update failed")
	}
	return linked
}

type POSCustomerInput struct {
	ID    string `json:"id,omitempty"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

type POSInput struct {
	Items       []ItemInput      `json:"items"`
	Total       int64            `json:"total"`
	Customer    POSCustomerInput `json:"customer"`
	PaymentMode string           `json:"paymentMode"`
}

type POSResult struct {
	Order    *domain.Order    `json:"order"`
	Customer *domain.Customer `json:"customer"`
}

// CreatePOS records an in-person sale. No gateway involvement: the order
// is persisted directly completed/paid. The returned customer is the
// record as it stood at sale time, so a first-time walk-in still reads as
// new.
func (s *Service) CreatePOS(ctx context.Context, in POSInput) (*POSResult, error) {
	items, subtotal, violations := buildItems(in.Items)
	if in.Total <= 0 {
		violations = append(violations, "Order total must be greater than zero")
	} else if in.Total > subtotal {
		violations = append(violations, "Order total cannot exceed the item subtotal")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Fields: violations}
	}

	c, err := s.customers.Resolve(ctx, in.Customer.ID, in.Customer.Phone)
	if errors.Is(err, domain.ErrNotFound) {
		c, err = s.customers.ResolveOrCreate(ctx, in.Customer.Phone, in.Customer.Name)
	}
	if err != nil {
		return nil, err
	}
	atSale := *c

	// The charged total may only undercut the subtotal; the difference is
	// the recorded discount.
	discount := subtotal - in.Total
	now := time.Now().UTC()
	o, err := s.repo.Create(ctx, &domain.Order{
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         in.Total,
		Status:        domain.StatusCompleted,
		PaymentStatus: domain.PaymentPaid,
		Origin:        domain.OriginPOS,
		CustomerID:    c.ID,
		CustomerName:  c.Name,
		PaymentMode:   in.PaymentMode,
		PaidAt:        &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.RecordOrder(ctx, c.ID, in.Total); err != nil {
		s.logger.WithField("customer_id", c.ID).WithError(err).Warn("customer stats update failed")
	}
	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "customer_id": c.ID}).Info("pos order created")
	return &POSResult{Order: o, Customer: &atSale}, nil
}

// UpdateStatus changes the fulfilment status only; the payment status is
// never touched here.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, &domain.ValidationError{Fields: []string{"Status must be one of pending, processing, completed, failed"}}
	}
	s.locks.lock(id)
	defer s.locks.unlock(id)

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	check := *o
	if err := check.Transition(status, ""); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, func(o *domain.Order) {
		_ = o.Transition(status, "")
	})
}

// List returns every order, POS and online merged, newest first.
func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// PurgeFailed removes orders whose payment has been failed longer than the
// retention window.
func (s *Service) PurgeFailed(ctx context.Context) (int, error) {
	n, err := s.repo.PurgeFailedBefore(ctx, time.Now().UTC().Add(-FailedRetention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.WithField("purged", n).Info("removed stale failed orders")
	}
	return n, nil
}

func buildItems(in []ItemInput) ([]domain.OrderItem, int64, []string) {
	var violations []string
	if len(in) == 0 {
		violations = append(violations, "Order items are required")
	}
	items := make([]domain.OrderItem, 0, len(in))
	var subtotal int64
	for _, it := range in {
		if it.Quantity <= 0 {
			violations = append(violations, "Item quantity must be positive")
		}
		if it.Price <= 0 {
			violations = append(violations, "Item price must be positive")
		}
		items = append(items, domain.OrderItem{
			ProductID:  it.ProductID,
			CategoryID: it.CategoryID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
		})
		subtotal += it.Price * int64(it.Quantity)
	}
	return items, subtotal, violations
}

func validateAddress(a *domain.ShippingAddress) []string {
	if a == nil {
		return []string{"Shipping address is required"}
	}
	var missing []string
	checks := []struct {
		value string
		msg   string
	}{
		{a.FullName, "Full name is required"},
		{a.Email, "Email is required"},
		{a.Phone, "Phone is required"},
		{a.Address, "Address is required"},
		{a.City, "City is required"},
		{a.State, "State is required"},
		{a.Country, "Country is required"},
		{a.PostalCode, "Postal code is required"},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			missing = append(missing, c.msg)
		}
	}
	return missing
}
