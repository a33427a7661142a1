// Package lifecycle decides booking status transitions for an acting user.
//
// The pipeline runs BOOKING_CREATED → PHOTOGRAPHER_ASSIGNED → (PHOTOGRAPHER_ACCEPTED) →
// SHOOTING → EDITING → COMPLETED. Every non-terminal state may also be cancelled or
// rejected by the photographer. The package holds no state and never touches storage.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"shutter/shared/constant"
)

type Status string

const (
	StatusBookingCreated       Status = "BOOKING_CREATED"
	StatusPhotographerAssigned Status = "PHOTOGRAPHER_ASSIGNED"
	StatusPhotographerAccepted Status = "PHOTOGRAPHER_ACCEPTED"
	StatusShooting             Status = "SHOOTING"
	StatusEditing              Status = "EDITING"
	StatusCompleted            Status = "COMPLETED"
	StatusPhotographerRejected Status = "PHOTOGRAPHER_REJECTED"
	StatusCancelled            Status = "CANCELLED"
)

var (
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrSameStatus         = errors.New("booking is already in the requested status")
	ErrClientForbidden    = errors.New("clients cannot change booking status")
	ErrNotAssigned        = errors.New("photographer is not assigned to this booking")
	ErrAdminOnly          = errors.New("only admins can assign photographers")
	ErrRejectReserved     = errors.New("only the assigned photographer can reject a booking")
	ErrAssignmentRequired = errors.New("assigning a photographer requires the assign endpoint")
	ErrUnknownRole        = errors.New("unknown role")
)

// TransitionError reports a target that is not reachable from the current status.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		names := make([]string, len(e.Allowed))
		for i, status := range e.Allowed {
			names[i] = string(status)
		}

		allowed = strings.Join(names, ", ")
	}

	return fmt.Sprintf("invalid status transition from %s to %s, allowed: %s", e.From, e.To, allowed)
}

// ordered lists every status in pipeline order; side branches last.
var ordered = []Status{
	StatusBookingCreated,
	StatusPhotographerAssigned,
	StatusPhotographerAccepted,
	StatusShooting,
	StatusEditing,
	StatusCompleted,
	StatusPhotographerRejected,
	StatusCancelled,
}

var pipeline = map[Status][]Status{
	StatusBookingCreated:       {StatusPhotographerAssigned},
	StatusPhotographerAssigned: {StatusPhotographerAccepted, StatusShooting},
	StatusPhotographerAccepted: {StatusShooting},
	StatusShooting:             {StatusEditing},
	StatusEditing:              {StatusCompleted},
}

var sideBranches = []Status{StatusPhotographerRejected, StatusCancelled}

func All() []Status {
	return slices.Clone(ordered)
}

func Parse(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}

	return status, nil
}

func (s Status) Valid() bool {
	return slices.Contains(ordered, s)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusPhotographerRejected || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// AllowedNext returns the legal next states, pipeline edges first.
func AllowedNext(from Status) []Status {
	if !from.Valid() || from.Terminal() {
		return nil
	}

	next := slices.Clone(pipeline[from])

	return append(next, sideBranches...)
}

func CanTransition(from, to Status) bool {
	return slices.Contains(AllowedNext(from), to)
}

// Request describes a status change attempt. PhotographerID is the booking's current
// photographer, nil while unassigned.
type Request struct {
	Current        Status
	Target         Status
	ActorID        string
	ActorRole      string
	PhotographerID *string
}

// Decision is an accepted transition. AssignPhotographer is set when the change also
// binds the acting photographer to the booking.
type Decision struct {
	From               Status
	To                 Status
	AssignPhotographer *string
}

// Decide validates req against the transition table and the actor's role.
func Decide(req Request) (Decision, error) {
	if !req.Current.Valid() {
		return Decision{}, fmt.Errorf("%w: current %q", ErrInvalidStatus, req.Current)
	}

	if !req.Target.Valid() {
		return Decision{}, fmt.Errorf("%w: target %q", ErrInvalidStatus, req.Target)
	}

	switch req.ActorRole {
	case constant.RoleClient:
		return Decision{}, ErrClientForbidden
	case constant.RolePhotographer:
		return decidePhotographer(req)
	case constant.RoleAdmin:
		return decideAdmin(req)
	default:
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownRole, req.ActorRole)
	}
}

func decidePhotographer(req Request) (Decision, error) {
	unassigned := req.PhotographerID == nil || *req.PhotographerID == constant.Empty

	if unassigned && req.Current == StatusBookingCreated && req.Target == StatusPhotographerAssigned {
		actor := req.ActorID

		return Decision{From: req.Current, To: req.Target, AssignPhotographer: &actor}, nil
	}

	if unassigned || *req.PhotographerID != req.ActorID {
		return Decision{}, ErrNotAssigned
	}

	if err := checkEdge(req.Current, req.Target); err != nil {
		return Decision{}, err
	}

	return Decision{From: req.Current, To: req.Target}, nil
}

func decideAdmin(req Request) (Decision, error) {
	if req.Target == StatusPhotographerRejected {
		return Decision{}, ErrRejectReserved
	}

	if err := checkEdge(req.Current, req.Target); err != nil {
		return Decision{}, err
	}

	if req.Current == StatusBookingCreated && req.Target == StatusPhotographerAssigned {
		return Decision{}, ErrAssignmentRequired
	}

	return Decision{From: req.Current, To: req.Target}, nil
}

func checkEdge(from, to Status) error {
	if from == to {
		return ErrSameStatus
	}

	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to, Allowed: AllowedNext(from)}
	}

	return nil
}

// DecideAssignment validates an admin binding a photographer to a booking.
func DecideAssignment(current Status, actorRole string) (Decision, error) {
	if actorRole != constant.RoleAdmin {
		return Decision{}, ErrAdminOnly
	}

	if !current.Valid() {
		return Decision{}, fmt.Errorf("%w: current %q", ErrInvalidStatus, current)
	}

	if current != StatusBookingCreated {
		return Decision{}, &TransitionError{From: current, To: StatusPhotographerAssigned, Allowed: AllowedNext(current)}
	}

	return Decision{From: current, To: StatusPhotographerAssigned}, nil
}

// IsForbidden reports whether err is a role or ownership rejection rather than an invalid edge.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrClientForbidden) ||
		errors.Is(err, ErrNotAssigned) ||
		errors.Is(err, ErrAdminOnly) ||
		errors.Is(err, ErrRejectReserved) ||
		errors.Is(err, ErrUnknownRole)
}
