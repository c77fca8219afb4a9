// Package notify sends customer-facing emails. Dispatch is a side effect
// of the order workflow: outcomes are reported, never propagated as
// failures of the primary operation.
package notify

import (
	"context"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

// Dispatch outcome values surfaced to API callers.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Result separates the side-effect outcome from the primary operation's.
type Result struct {
	Status string
	Err    error
}

func Sent() Result            { return Result{Status: StatusSent} }
func Skipped() Result         { return Result{Status: StatusSkipped} }
func Failed(err error) Result { return Result{Status: StatusFailed, Err: err} }

type Dispatcher interface {
	// OrderConfirmation mails the order receipt to the shipping email.
	// A missing recipient yields a skipped result.
	OrderConfirmation(ctx context.Context, o *domain.Order) Result
	// TestMessage exercises the delivery path without a real order.
	TestMessage(ctx context.Context, recipient string) Result
}
