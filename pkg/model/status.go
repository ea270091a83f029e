package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "lodgera/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type ActorRole string

const (
	RoleGuest ActorRole = "guest"
	RoleOwner ActorRole = "owner"
)

// BlockingStatuses are the statuses that make a reservation count against
// room availability. Cancelled, rejected and completed reservations free
// their date range.
var BlockingStatuses = []Status{StatusPending, StatusConfirmed}

// statusTransitions is the full transition table. Missing entries are
// terminal states.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusRejected:  {},
}

// roleTargets limits which target statuses each actor role may request,
// independently of the transition table.
var roleTargets = map[ActorRole][]Status{
	RoleGuest: {StatusCancelled},
	RoleOwner: {StatusConfirmed, StatusRejected, StatusCompleted},
}

func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (r ActorRole) Valid() bool {
	_, ok := roleTargets[r]
	return ok
}

func (r ActorRole) mayRequest(target Status) bool {
	for _, allowed := range roleTargets[r] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ApplyTransition validates and applies a status change in place. Role and
// ownership are checked before the transition table, so a guest asking for
// "confirmed" gets a Forbidden error even when the table would allow the
// move. Cancellations require a non-empty reason.
func (res *Reservation) ApplyTransition(newStatus Status, actorID string, role ActorRole, reason string, now time.Time) error {
	if !newStatus.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown reservation status: %s", newStatus))
	}
	if !role.Valid() {
		return apperrors.Forbidden(fmt.Sprintf("unknown actor role: %s", role))
	}

	switch role {
	case RoleGuest:
		if res.GuestID != actorID {
			return apperrors.Forbidden("you do not have permission to modify this reservation")
		}
	case RoleOwner:
		if res.OwnerID != actorID {
			return apperrors.Forbidden("you do not have permission to modify this reservation")
		}
	}
	if !role.mayRequest(newStatus) {
		return apperrors.Forbidden(fmt.Sprintf("role %s may not set a reservation to %s", role, newStatus))
	}

	if !res.Status.CanTransitionTo(newStatus) {
		return apperrors.InvalidTransition(string(res.Status), string(newStatus))
	}

	// The reason is stored exactly as the guest sent it, so only the
	// emptiness check normalizes whitespace.
	if newStatus == StatusCancelled && strings.TrimSpace(reason) == "" {
		return apperrors.InvalidInput("a cancellation reason is required")
	}

	res.Status = newStatus
	res.UpdatedAt = now
	switch newStatus {
	case StatusCancelled:
		res.CancelledAt = &now
		res.CancellationReason = reason
	case StatusConfirmed:
		res.ConfirmedAt = &now
	}
	return nil
}
