package controllers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AveloCapital/avelo_backend/models"
)

type fakeGrantSweeper struct {
	failing  map[primitive.ObjectID]bool
	revoked  []primitive.ObjectID
	notified []primitive.ObjectID
}

func (f *fakeGrantSweeper) revokeExpired(ctx context.Context, grant models.DataRoomAccess) error {
	if f.failing[grant.ID] {
		return errors.New("write conflict")
	}
	f.revoked = append(f.revoked, grant.ID)
	return nil
}

func (f *fakeGrantSweeper) notifyExpired(ctx context.Context, grant models.DataRoomAccess) {
	f.notified = append(f.notified, grant.ID)
}

func expiredGrants(n int) []models.DataRoomAccess {
	grants := make([]models.DataRoomAccess, n)
	for i := range grants {
		grants[i] = models.DataRoomAccess{
			ID:         primitive.NewObjectID(),
			DealID:     primitive.NewObjectID(),
			InvestorID: primitive.NewObjectID(),
		}
	}
	return grants
}

func TestRunSweepNotifiesOncePerRevocation(t *testing.T) {
	grants := expiredGrants(3)
	ops := &fakeGrantSweeper{}

	result := runSweep(context.Background(), grants, ops, "run-1")

	if !result.Success {
		t.Error("result.Success = false, want true")
	}
	if result.RunID != "run-1" {
		t.Errorf("result.RunID = %q, want run-1", result.RunID)
	}
	if result.RevokedCount != 3 {
		t.Errorf("RevokedCount = %d, want 3", result.RevokedCount)
	}
	if result.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", result.ErrorCount)
	}
	if len(ops.notified) != 3 {
		t.Fatalf("got %d notifications, want 3", len(ops.notified))
	}
	for i, grant := range grants {
		if ops.revoked[i] != grant.ID {
			t.Errorf("revoked[%d] = %s, want %s", i, ops.revoked[i].Hex(), grant.ID.Hex())
		}
		if ops.notified[i] != grant.ID {
			t.Errorf("notified[%d] = %s, want %s", i, ops.notified[i].Hex(), grant.ID.Hex())
		}
	}
}

func TestRunSweepEmptyBatch(t *testing.T) {
	// A re-run right after a sweep finds nothing and reports zero revocations
	ops := &fakeGrantSweeper{}

	result := runSweep(context.Background(), nil, ops, "run-2")

	if !result.Success {
		t.Error("result.Success = false, want true")
	}
	if result.RevokedCount != 0 {
		t.Errorf("RevokedCount = %d, want 0", result.RevokedCount)
	}
	if result.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", result.ErrorCount)
	}
	if len(ops.notified) != 0 {
		t.Errorf("got %d notifications, want 0", len(ops.notified))
	}
}

func TestRunSweepFailedRowSkippedWithoutNotification(t *testing.T) {
	grants := expiredGrants(3)
	ops := &fakeGrantSweeper{
		failing: map[primitive.ObjectID]bool{grants[1].ID: true},
	}

	result := runSweep(context.Background(), grants, ops, "run-3")

	if result.RevokedCount != 2 {
		t.Errorf("RevokedCount = %d, want 2", result.RevokedCount)
	}
	if result.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", result.ErrorCount)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], grants[1].ID.Hex()) {
		t.Errorf("Errors = %v, want one entry naming grant %s", result.Errors, grants[1].ID.Hex())
	}
	for _, id := range ops.notified {
		if id == grants[1].ID {
			t.Error("failed grant received a notification")
		}
	}
	if len(ops.notified) != 2 {
		t.Errorf("got %d notifications, want 2", len(ops.notified))
	}
}

func TestShouldResetVisibility(t *testing.T) {
	tests := []struct {
		activeGrants int64
		want         bool
	}{
		{0, true},
		{1, false},
		{7, false},
	}

	for _, tt := range tests {
		if got := shouldResetVisibility(tt.activeGrants); got != tt.want {
			t.Errorf("shouldResetVisibility(%d) = %v, want %v", tt.activeGrants, got, tt.want)
		}
	}
}
