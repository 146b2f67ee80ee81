package form

import (
	"liftdesk/internal/assoc"
	"liftdesk/internal/domain"
)

// State is the controller's single tagged state
type State int

const (
	StateIdle State = iota
	StateValidating
	StateValidationFailed
	StateSubmitting
	StateSubmitFailed
	StateSyncingAssociations
	StatePartialFailure
	StateDone
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateValidating:          "validating",
	StateValidationFailed:    "validation failed",
	StateSubmitting:          "submitting",
	StateSubmitFailed:        "submit failed",
	StateSyncingAssociations: "syncing associations",
	StatePartialFailure:      "partial failure",
	StateDone:                "done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// InFlight reports whether the state waits on validation or the network
func (s State) InFlight() bool {
	return s == StateValidating || s == StateSubmitting || s == StateSyncingAssociations
}

// OutcomeKind tags a submission result
type OutcomeKind string

const (
	OutcomeSuccess                   OutcomeKind = "success"
	OutcomeValidationError           OutcomeKind = "validationError"
	OutcomeNetworkError              OutcomeKind = "networkError"
	OutcomeUnauthorized              OutcomeKind = "unauthorized"
	OutcomeServerError               OutcomeKind = "serverError"
	OutcomePartialAssociationFailure OutcomeKind = "partialAssociationFailure"
)

// Outcome is what a submission produced. It is never persisted.
type Outcome struct {
	Kind     OutcomeKind
	Entity   domain.Item
	EntityID string
	Created  bool
	Fields   map[string]string
	Message  string
	Report   *assoc.Report
}

// Committed reports whether the primary entity was persisted
func (o Outcome) Committed() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomePartialAssociationFailure
}

// FailedMembers lists the member ids whose association calls failed
func (o Outcome) FailedMembers() []string {
	if o.Report == nil {
		return nil
	}
	return o.Report.FailedIDs()
}
