package domain

import (
	"errors"
	"testing"
)

func TestTransitionPendingToPaid(t *testing.T) {
	o := &Order{Status: StatusPending, PaymentStatus: PaymentPending}
	if err := o.Transition(StatusProcessing, PaymentPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusProcessing || o.PaymentStatus != PaymentPaid {
		t.Fatalf("got %s/%s", o.Status, o.PaymentStatus)
	}
	if o.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be stamped")
	}
}

func TestTransitionPaidBackToPendingRejected(t *testing.T) {
	o := &Order{Status: StatusProcessing, PaymentStatus: PaymentPaid}
	err := o.Transition("", PaymentPending)
	var tErr *TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if o.PaymentStatus != PaymentPaid {
		t.Fatalf("payment status mutated to %s", o.PaymentStatus)
	}
}

func TestTransitionPaidRequiresStatusBeyondPending(t *testing.T) {
	o := &Order{Status: StatusPending, PaymentStatus: PaymentPending}
	if err := o.Transition("", PaymentPaid); err == nil {
		t.Fatal("expected rejection: paid order cannot stay pending")
	}
	if o.PaymentStatus != PaymentPending {
		t.Fatalf("payment status mutated to %s", o.PaymentStatus)
	}
}

func TestTransitionOutOfCompletedRejected(t *testing.T) {
	o := &Order{Status: StatusCompleted, PaymentStatus: PaymentPaid}
	if err := o.Transition(StatusPending, ""); err == nil {
		t.Fatal("expected rejection: completed is terminal")
	}
}

func TestTransitionFailedPaymentCanRecover(t *testing.T) {
	o := &Order{Status: StatusPending, PaymentStatus: PaymentFailed}
	if err := o.Transition(StatusProcessing, PaymentPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransitionSameStateIsNoopAllowed(t *testing.T) {
	o := &Order{Status: StatusProcessing, PaymentStatus: PaymentPaid}
	if err := o.Transition(StatusProcessing, PaymentPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		if !ValidStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Fatal("unknown status accepted")
	}
}
