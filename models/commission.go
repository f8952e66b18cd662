package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionStatus is the lifecycle state of an accrued commission.
type CommissionStatus string

const (
	CommissionAccrued          CommissionStatus = "accrued"
	CommissionInvoiceRequested CommissionStatus = "invoice_requested"
	CommissionInvoiced         CommissionStatus = "invoiced"
	CommissionPaid             CommissionStatus = "paid"
	CommissionCancelled        CommissionStatus = "cancelled"
)

// CommissionTransitionError is returned for illegal status transitions and
// carries the current status so handlers can echo it to the caller.
type CommissionTransitionError struct {
	Current CommissionStatus
}

func (e *CommissionTransitionError) Error() string {
	return fmt.Sprintf("InvalidStatus (current status: %s)", e.Current)
}

// CanRequestInvoice reports whether request-invoice is legal from s.
// The transition is only legal from accrued.
func (s CommissionStatus) CanRequestInvoice() error {
	if s == CommissionAccrued {
		return nil
	}
	return &CommissionTransitionError{Current: s}
}

// CanMarkInvoiced reports whether the staff invoiced transition is legal.
func (s CommissionStatus) CanMarkInvoiced() error {
	if s == CommissionInvoiceRequested {
		return nil
	}
	return &CommissionTransitionError{Current: s}
}

// CanMarkPaid reports whether the paid transition is legal.
func (s CommissionStatus) CanMarkPaid() error {
	if s == CommissionInvoiced {
		return nil
	}
	return &CommissionTransitionError{Current: s}
}

// CanCancel reports whether the commission can still be cancelled.
// Cancelled is absorbing and paid commissions cannot be cancelled.
func (s CommissionStatus) CanCancel() error {
	switch s {
	case CommissionAccrued, CommissionInvoiceRequested, CommissionInvoiced:
		return nil
	}
	return &CommissionTransitionError{Current: s}
}

// Commission is an accrued amount owed to a referring entity for one deal,
// optionally attributable to a single investor.
type Commission struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FeePlanID  primitive.ObjectID `json:"feePlanId,omitempty" bson:"feePlanId,omitempty"`
	DealID     primitive.ObjectID `json:"dealId" bson:"dealId"`
	InvestorID primitive.ObjectID `json:"investorId,omitempty" bson:"investorId,omitempty"`
	Entity     ReferringEntityRef `json:"entity" bson:"entity"`

	Status        CommissionStatus `json:"status" bson:"status"`
	AccrualAmount float64          `json:"accrualAmount" bson:"accrualAmount"`
	Currency      string           `json:"currency" bson:"currency"`
	InvoiceRef    string           `json:"invoiceRef,omitempty" bson:"invoiceRef,omitempty"`

	InvoiceRequestedAt *time.Time `json:"invoiceRequestedAt,omitempty" bson:"invoiceRequestedAt,omitempty"`
	InvoicedAt         *time.Time `json:"invoicedAt,omitempty" bson:"invoicedAt,omitempty"`
	PaidAt             *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updatedAt"`
}
