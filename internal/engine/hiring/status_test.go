package hiring

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProgramLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		current   Status
		requested Status
		wantOK    bool
	}{
		{"upcoming to active", ProgramUpcoming, ProgramActive, true},
		{"upcoming to cancelled", ProgramUpcoming, ProgramCancelled, true},
		{"active to ongoing", ProgramActive, ProgramOngoing, true},
		{"ongoing to completed", ProgramOngoing, ProgramCompleted, true},
		{"completed to archived", ProgramCompleted, ProgramArchived, true},
		{"archived back to active", ProgramArchived, ProgramActive, true},
		{"completed cannot reopen", ProgramCompleted, ProgramActive, false},
		{"upcoming cannot skip to ongoing", ProgramUpcoming, ProgramOngoing, false},
		{"cancelled cannot resume", ProgramCancelled, ProgramOngoing, false},
		{"same state is a no-op", ProgramOngoing, ProgramOngoing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProgramLifecycle.ValidateTransition(tt.current, tt.requested)
			if (err == nil) != tt.wantOK {
				t.Errorf("ValidateTransition(%s, %s) err = %v, wantOK %v", tt.current, tt.requested, err, tt.wantOK)
			}
		})
	}
}

func TestProgramLifecycle_RejectionDetails(t *testing.T) {
	err := ProgramLifecycle.ValidateTransition(ProgramCompleted, ProgramActive)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T: %v", err, err)
	}
	if terr.Current != ProgramCompleted || terr.Requested != ProgramActive {
		t.Errorf("unexpected error detail: %+v", terr)
	}
	if len(terr.Allowed) != 1 || terr.Allowed[0] != ProgramArchived {
		t.Errorf("Allowed = %v, want [archived]", terr.Allowed)
	}
	if !strings.Contains(err.Error(), "archived") {
		t.Errorf("message should name the allowed states: %q", err.Error())
	}
}

func TestApplicationLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		current   Status
		requested Status
		wantOK    bool
	}{
		{"pending to under review", StatusPending, StatusUnderReview, true},
		{"pending to withdrawn", StatusPending, StatusWithdrawn, true},
		{"under review to shortlisted", StatusUnderReview, StatusShortlisted, true},
		{"shortlisted to hired", StatusShortlisted, StatusHired, true},
		{"shortlisted to denied", StatusShortlisted, StatusDenied, true},
		{"hired to archived", StatusHired, StatusArchived, true},
		{"pending cannot jump to hired", StatusPending, StatusHired, false},
		{"denied cannot be hired", StatusDenied, StatusHired, false},
		{"withdrawn cannot reenter review", StatusWithdrawn, StatusUnderReview, false},
		{"pending to pending no-op", StatusPending, StatusPending, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplicationLifecycle.ValidateTransition(tt.current, tt.requested)
			if (err == nil) != tt.wantOK {
				t.Errorf("ValidateTransition(%s, %s) err = %v, wantOK %v", tt.current, tt.requested, err, tt.wantOK)
			}
		})
	}
}

func TestApplicationLifecycle_ArchivedIsTerminal(t *testing.T) {
	err := ApplicationLifecycle.ValidateTransition(StatusArchived, StatusPending)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T: %v", err, err)
	}
	if len(terr.Allowed) != 0 {
		t.Errorf("archived should be terminal, allowed = %v", terr.Allowed)
	}
	if !strings.Contains(err.Error(), "terminal") {
		t.Errorf("terminal rejection message: %q", err.Error())
	}
}

func TestTrainingApplicationLifecycle_CertificationPath(t *testing.T) {
	walk := []Status{StatusUnderReview, StatusApproved, StatusCompleted, StatusCertified, StatusArchived}
	current := TrainingApplicationLifecycle.Initial()
	for _, next := range walk {
		if err := TrainingApplicationLifecycle.ValidateTransition(current, next); err != nil {
			t.Fatalf("step %s -> %s: %v", current, next, err)
		}
		current = next
	}

	if err := TrainingApplicationLifecycle.ValidateTransition(StatusCompleted, StatusHired); err == nil {
		t.Error("hired does not belong to the training vocabulary")
	}
	if err := TrainingApplicationLifecycle.ValidateTransition(StatusApproved, StatusCertified); err == nil {
		t.Error("certification requires completion first")
	}
}

func TestValidateTransition_UnknownStatuses(t *testing.T) {
	if err := ApplicationLifecycle.ValidateTransition("banana", StatusPending); err == nil {
		t.Error("unknown current status accepted")
	}
	if err := ApplicationLifecycle.ValidateTransition(StatusPending, "banana"); err == nil {
		t.Error("unknown requested status accepted")
	}
}

func TestLifecycle_Accessors(t *testing.T) {
	if ProgramLifecycle.Initial() != ProgramUpcoming {
		t.Errorf("program initial = %s", ProgramLifecycle.Initial())
	}
	if ApplicationLifecycle.Initial() != StatusPending {
		t.Errorf("application initial = %s", ApplicationLifecycle.Initial())
	}
	if !ApplicationLifecycle.Known(StatusShortlisted) {
		t.Error("shortlisted should be known to the application lifecycle")
	}
	if ApplicationLifecycle.Known(StatusCertified) {
		t.Error("certified belongs to the training lifecycle only")
	}

	allowed := ApplicationLifecycle.Allowed(StatusUnderReview)
	want := []Status{StatusDenied, StatusShortlisted, StatusWithdrawn}
	if len(allowed) != len(want) {
		t.Fatalf("allowed = %v, want %v", allowed, want)
	}
	for i := range want {
		if allowed[i] != want[i] {
			t.Errorf("allowed[%d] = %s, want %s (sorted)", i, allowed[i], want[i])
		}
	}
}

func TestNewHistoryEntry(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.FixedZone("PHT", 8*3600))
	entry := NewHistoryEntry(StatusPending, StatusUnderReview, "hr-officer", "initial screening", at)

	if entry.ID == "" {
		t.Error("entry should carry a generated id")
	}
	if entry.From != StatusPending || entry.To != StatusUnderReview {
		t.Errorf("entry states = %s -> %s", entry.From, entry.To)
	}
	if entry.ChangedAt.Location() != time.UTC {
		t.Errorf("ChangedAt should be UTC, got %v", entry.ChangedAt.Location())
	}
	if !entry.ChangedAt.Equal(at) {
		t.Errorf("ChangedAt = %v, want %v", entry.ChangedAt, at)
	}

	second := NewHistoryEntry(StatusPending, StatusUnderReview, "", "", at)
	if second.ID == entry.ID {
		t.Error("ids should be unique per entry")
	}
}
