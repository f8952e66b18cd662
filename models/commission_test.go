package models

import (
	"errors"
	"testing"
)

func TestCommissionCanRequestInvoice(t *testing.T) {
	if err := CommissionAccrued.CanRequestInvoice(); err != nil {
		t.Errorf("CanRequestInvoice() from accrued = %v, want nil", err)
	}

	for _, status := range []CommissionStatus{
		CommissionInvoiceRequested, CommissionInvoiced, CommissionPaid, CommissionCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			err := status.CanRequestInvoice()
			var terr *CommissionTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("CanRequestInvoice() = %v, want CommissionTransitionError", err)
			}
			if terr.Current != status {
				t.Errorf("current = %s, want %s", terr.Current, status)
			}
		})
	}
}

func TestCommissionLifecycleOrder(t *testing.T) {
	// The happy path walks accrued -> invoice_requested -> invoiced -> paid
	if err := CommissionAccrued.CanRequestInvoice(); err != nil {
		t.Fatalf("request invoice: %v", err)
	}
	if err := CommissionInvoiceRequested.CanMarkInvoiced(); err != nil {
		t.Fatalf("mark invoiced: %v", err)
	}
	if err := CommissionInvoiced.CanMarkPaid(); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// No skipping steps
	if err := CommissionAccrued.CanMarkInvoiced(); err == nil {
		t.Error("mark invoiced from accrued should fail")
	}
	if err := CommissionAccrued.CanMarkPaid(); err == nil {
		t.Error("mark paid from accrued should fail")
	}
	if err := CommissionInvoiceRequested.CanMarkPaid(); err == nil {
		t.Error("mark paid from invoice_requested should fail")
	}
}

func TestCommissionCanCancel(t *testing.T) {
	tests := []struct {
		status  CommissionStatus
		wantErr bool
	}{
		{CommissionAccrued, false},
		{CommissionInvoiceRequested, false},
		{CommissionInvoiced, false},
		{CommissionPaid, true},
		{CommissionCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			err := tt.status.CanCancel()
			if (err != nil) != tt.wantErr {
				t.Errorf("CanCancel() from %s = %v, wantErr %v", tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestCommissionTransitionErrorMessage(t *testing.T) {
	err := &CommissionTransitionError{Current: CommissionPaid}
	want := "InvalidStatus (current status: paid)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
