package models

import (
	"errors"
	"testing"
)

func TestFeePlanCanAccept(t *testing.T) {
	tests := []struct {
		name     string
		status   FeePlanStatus
		wantCode string
	}{
		{"from draft", FeePlanDraft, ""},
		{"from sent", FeePlanSent, ""},
		{"from pending signature", FeePlanPendingSignature, ""},
		{"already accepted", FeePlanAccepted, FeePlanErrAlreadyAccepted},
		{"after rejection", FeePlanRejected, FeePlanErrInvalidStatus},
		{"unknown status", FeePlanStatus("bogus"), FeePlanErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.CanAccept()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CanAccept() = %v, want nil", err)
				}
				return
			}
			var terr *FeePlanTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("CanAccept() = %v, want FeePlanTransitionError", err)
			}
			if terr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", terr.Code, tt.wantCode)
			}
			if terr.Current != tt.status {
				t.Errorf("current = %s, want %s", terr.Current, tt.status)
			}
		})
	}
}

func TestFeePlanCanReject(t *testing.T) {
	tests := []struct {
		name     string
		status   FeePlanStatus
		wantCode string
	}{
		{"from draft", FeePlanDraft, ""},
		{"from sent", FeePlanSent, ""},
		{"from pending signature", FeePlanPendingSignature, ""},
		{"already rejected", FeePlanRejected, FeePlanErrAlreadyRejected},
		{"after acceptance", FeePlanAccepted, FeePlanErrAlreadyAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.CanReject()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CanReject() = %v, want nil", err)
				}
				return
			}
			var terr *FeePlanTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("CanReject() = %v, want FeePlanTransitionError", err)
			}
			if terr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", terr.Code, tt.wantCode)
			}
		})
	}
}

func TestFeePlanCanSend(t *testing.T) {
	if err := FeePlanDraft.CanSend(); err != nil {
		t.Errorf("CanSend() from draft = %v, want nil", err)
	}
	for _, status := range []FeePlanStatus{FeePlanSent, FeePlanPendingSignature, FeePlanAccepted, FeePlanRejected} {
		if err := status.CanSend(); err == nil {
			t.Errorf("CanSend() from %s = nil, want error", status)
		}
	}
}

func TestFeePlanCanMarkPendingSignature(t *testing.T) {
	if err := FeePlanSent.CanMarkPendingSignature(); err != nil {
		t.Errorf("CanMarkPendingSignature() from sent = %v, want nil", err)
	}
	for _, status := range []FeePlanStatus{FeePlanDraft, FeePlanPendingSignature, FeePlanAccepted, FeePlanRejected} {
		if err := status.CanMarkPendingSignature(); err == nil {
			t.Errorf("CanMarkPendingSignature() from %s = nil, want error", status)
		}
	}
}

func TestFeePlanTransitionErrorMessage(t *testing.T) {
	err := &FeePlanTransitionError{Code: FeePlanErrAlreadyAccepted, Current: FeePlanAccepted}
	want := "AlreadyAccepted (current status: accepted)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
