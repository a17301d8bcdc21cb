package access

import "loan-ledger-service/internal/domain/apperror"

type Action string

const (
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionPay     Action = "pay"
	ActionApprove Action = "approve"
)

// Actor is the identity a request acts as. IsAdmin is resolved once at the
// identity store boundary.
type Actor struct {
	ID          uint64
	ApplicantID string
	IsAdmin     bool
}

// Trail is the ownership chain of a protected resource: its own owner and, at
// most, one resource it hangs off.
type Trail struct {
	OwnerID uint64
	Via     Owned
}

// Owned is implemented by every protected resource type.
type Owned interface {
	OwnershipTrail() Trail
}

func adminOnly(a Action) bool { return a == ActionApprove }

// Allowed evaluates the ownership rules without building an error.
func Allowed(actor Actor, res Owned, action Action) bool {
	if actor.IsAdmin {
		return true
	}
	if adminOnly(action) || res == nil || actor.ID == 0 {
		return false
	}
	tr := res.OwnershipTrail()
	if tr.OwnerID != 0 && tr.OwnerID == actor.ID {
		return true
	}
	if tr.Via != nil {
		// one hop only; the parent's own Via is ignored
		if p := tr.Via.OwnershipTrail(); p.OwnerID != 0 && p.OwnerID == actor.ID {
			return true
		}
	}
	return false
}

// Authorize returns nil when actor may perform action on res, or an
// authorization error otherwise.
func Authorize(actor Actor, res Owned, action Action) error {
	if Allowed(actor, res, action) {
		return nil
	}
	return apperror.Authorization("not allowed to " + string(action) + " this resource")
}
