package hiring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lgucareers/go_hire/internal/engine"
)

// Status is one state in a lifecycle.
type Status string

// Training-program lifecycle states.
const (
	ProgramUpcoming  Status = "upcoming"
	ProgramActive    Status = "active"
	ProgramOngoing   Status = "ongoing"
	ProgramCompleted Status = "completed"
	ProgramCancelled Status = "cancelled"
	ProgramArchived  Status = "archived"
)

// Application lifecycle states (job applications and training applications
// share the vocabulary; each lifecycle whitelists its own subset).
const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusShortlisted Status = "shortlisted"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
	StatusHired       Status = "hired"
	StatusCompleted   Status = "completed"
	StatusCertified   Status = "certified"
	StatusWithdrawn   Status = "withdrawn"
	StatusArchived    Status = "archived"
)

// Lifecycle is a finite state machine over a status vocabulary. The
// transition map is the whitelist: anything absent fails closed.
type Lifecycle struct {
	name        string
	initial     Status
	transitions map[Status][]Status
}

// ProgramLifecycle governs training programs: upcoming → active → ongoing
// → completed, cancellable from any non-terminal state, archivable once
// finished, and unarchivable back to active.
var ProgramLifecycle = Lifecycle{
	name:    "training_program",
	initial: ProgramUpcoming,
	transitions: map[Status][]Status{
		ProgramUpcoming:  {ProgramActive, ProgramCancelled},
		ProgramActive:    {ProgramOngoing, ProgramCancelled},
		ProgramOngoing:   {ProgramCompleted, ProgramCancelled},
		ProgramCompleted: {ProgramArchived},
		ProgramCancelled: {ProgramArchived},
		ProgramArchived:  {ProgramActive},
	},
}

// ApplicationLifecycle governs job applications.
var ApplicationLifecycle = Lifecycle{
	name:    "application",
	initial: StatusPending,
	transitions: map[Status][]Status{
		StatusPending:     {StatusUnderReview, StatusWithdrawn},
		StatusUnderReview: {StatusShortlisted, StatusDenied, StatusWithdrawn},
		StatusShortlisted: {StatusHired, StatusDenied, StatusWithdrawn},
		StatusHired:       {StatusArchived},
		StatusDenied:      {StatusArchived},
		StatusWithdrawn:   {StatusArchived},
		StatusArchived:    {},
	},
}

// TrainingApplicationLifecycle governs enrollment in training programs,
// through completion and certification.
var TrainingApplicationLifecycle = Lifecycle{
	name:    "training_application",
	initial: StatusPending,
	transitions: map[Status][]Status{
		StatusPending:     {StatusUnderReview, StatusWithdrawn},
		StatusUnderReview: {StatusApproved, StatusDenied, StatusWithdrawn},
		StatusApproved:    {StatusCompleted, StatusWithdrawn},
		StatusCompleted:   {StatusCertified, StatusArchived},
		StatusCertified:   {StatusArchived},
		StatusDenied:      {StatusArchived},
		StatusWithdrawn:   {StatusArchived},
		StatusArchived:    {},
	},
}

// Name returns the lifecycle name.
func (l Lifecycle) Name() string { return l.name }

// Initial returns the state a newly submitted record enters.
func (l Lifecycle) Initial() Status { return l.initial }

// Known reports whether s belongs to this lifecycle's vocabulary.
func (l Lifecycle) Known(s Status) bool {
	_, ok := l.transitions[s]
	return ok
}

// Allowed returns the whitelisted next states for current, sorted.
func (l Lifecycle) Allowed(current Status) []Status {
	next := append([]Status(nil), l.transitions[current]...)
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

// TransitionError is the structured, user-facing rejection of a status
// change. It is an expected outcome, not a system failure: the message
// names the allowed next states so the caller can present them.
type TransitionError struct {
	Lifecycle string   `json:"lifecycle"`
	Current   Status   `json:"current"`
	Requested Status   `json:"requested"`
	Allowed   []Status `json:"allowed"`
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s: cannot move from %q to %q: %q is terminal",
			e.Lifecycle, e.Current, e.Requested, e.Current)
	}
	names := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("%s: cannot move from %q to %q: allowed next states are [%s]",
		e.Lifecycle, e.Current, e.Requested, strings.Join(names, ", "))
}

// ValidateTransition authorizes a status change. A same-state request is
// always valid (a no-op the caller may skip recording). Anything not on
// the whitelist fails closed with a *TransitionError. The validator never
// mutates history — it only authorizes the caller to append.
func (l Lifecycle) ValidateTransition(current, requested Status) error {
	if current == requested {
		return nil
	}
	if !l.Known(current) {
		engine.IncrTransitionRejections()
		return fmt.Errorf("%s: unknown current status %q", l.name, current)
	}
	if !l.Known(requested) {
		engine.IncrTransitionRejections()
		return fmt.Errorf("%s: unknown requested status %q", l.name, requested)
	}
	for _, next := range l.transitions[current] {
		if next == requested {
			engine.IncrTransitions()
			return nil
		}
	}
	engine.IncrTransitionRejections()
	return &TransitionError{
		Lifecycle: l.name,
		Current:   current,
		Requested: requested,
		Allowed:   l.Allowed(current),
	}
}

// HistoryEntry is one immutable row of a record's append-only status
// history. The first entry of a record has an empty From; a record's
// current status is always the To of its last entry, never a separately
// maintained field.
type HistoryEntry struct {
	ID        string    `json:"id"`
	From      Status    `json:"from,omitempty"`
	To        Status    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// NewHistoryEntry builds the entry for an authorized transition.
func NewHistoryEntry(from, to Status, changedBy, notes string, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		ChangedAt: at.UTC(),
		ChangedBy: changedBy,
		Notes:     notes,
	}
}
