package domain

import "time"

// Order status values.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order origin values.
const (
	OriginGuest  = "guest"
	OriginOnline = "online"
	OriginPOS    = "pos"
)

type Order struct {
	ID               string           `json:"id"`
	Items            []OrderItem      `json:"items"`
	Subtotal         int64            `json:"subtotal"`
	Discount         int64            `json:"discount"`
	Total            int64            `json:"total"`
	ShippingAddress  *ShippingAddress `json:"shippingAddress,omitempty"`
	Status           string           `json:"status"`
	PaymentStatus    string           `json:"paymentStatus"`
	GatewayOrderID   string           `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string           `json:"gatewayPaymentId,omitempty"`
	Origin           string           `json:"origin"`
	CustomerID       string           `json:"customerId,omitempty"`
	CustomerName     string           `json:"customerName,omitempty"`
	PaymentMode      string           `json:"paymentMode,omitempty"`
	AppliedOffer     *OfferSnapshot   `json:"appliedOffer,omitempty"`
	IsTestOrder      bool             `json:"isTestOrder,omitempty"`
	PaidAt           *time.Time       `json:"paidAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type OrderItem struct {
	ProductID  string `json:"productId"`
	CategoryID string `json:"categoryId,omitempty"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// OfferSnapshot captures the offer applied to an order at confirmation
// time, so receipts reproduce the discount even if the offer changes later.
type OfferSnapshot struct {
	Label           string   `json:"label"`
	CouponCode      string   `json:"couponCode,omitempty"`
	DiscountPercent int      `json:"discountPercent"`
	MinOrderValue   int64    `json:"minOrderValue,omitempty"`
	MinItems        int      `json:"minItems,omitempty"`
	CategoryIDs     []string `json:"categoryIds,omitempty"`
	ProductIDs      []string `json:"productIds,omitempty"`
}

func (o *Order) RecordID() string      { return o.ID }
func (o *Order) SetRecordID(id string) { o.ID = id }

// Clone returns a deep copy sharing no memory with the receiver.
func (o *Order) Clone() *Order {
	cp := *o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	if o.ShippingAddress != nil {
		addr := *o.ShippingAddress
		cp.ShippingAddress = &addr
	}
	if o.AppliedOffer != nil {
		snap := *o.AppliedOffer
		snap.CategoryIDs = append([]string(nil), o.AppliedOffer.CategoryIDs...)
		snap.ProductIDs = append([]string(nil), o.AppliedOffer.ProductIDs...)
		cp.AppliedOffer = &snap
	}
	if o.PaidAt != nil {
		at := *o.PaidAt
		cp.PaidAt = &at
	}
	return &cp
}

var statusTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusPending, StatusProcessing},
	StatusCompleted:  {},
}

var paymentTransitions = map[string][]string{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPaid},
	PaymentPaid:    {},
}

func allowed(table map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// Transition moves the order to the given status/payment-status pair.
// Pass an empty string to leave either unchanged. Illegal transitions
// (paid back to pending, out of completed) are rejected.
func (o *Order) Transition(status, paymentStatus string) error {
	next, nextPayment := o.Status, o.PaymentStatus
	if status != "" {
		if !allowed(statusTransitions, o.Status, status) {
			return &TransitionError{From: o.Status, To: status}
		}
		next = status
	}
	if paymentStatus != "" {
		if !allowed(paymentTransitions, o.PaymentStatus, paymentStatus) {
			return &TransitionError{From: o.PaymentStatus, To: paymentStatus}
		}
		nextPayment = paymentStatus
	}
	// A paid order must have advanced past pending.
	if nextPayment == PaymentPaid && next == StatusPending {
		return &TransitionError{From: o.Status, To: StatusPending}
	}
	o.Status = next
	o.PaymentStatus = nextPayment
	o.UpdatedAt = time.Now().UTC()
	return nil
}
