package auth

import (
	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/utils"
)

// Operation enumerates what a request wants to do with a listing.
type Operation int

const (
	OpReadPublic Operation = iota
	OpReadOwn
	OpCreate
	OpUpdate
	OpDelete
	OpApprove
	OpReject
)

func (o Operation) String() string {
	switch o {
	case OpReadPublic:
		return "read-public"
	case OpReadOwn:
		return "read-own"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpApprove:
		return "approve"
	case OpReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Target is the slice of a property the guard needs: who owns it and
// whether it is publicly visible.
type Target struct {
	OwnerID   uuid.UUID
	Published bool
}

// Authorize is a pure predicate: permit (nil) or deny (ErrUnauthorized).
// Callers must not leak property content on denial.
func Authorize(a Actor, op Operation, target Target) error {
	switch op {
	case OpReadPublic:
		if target.Published {
			return nil
		}
		// Unpublished listings: admin, or the owning agent previewing.
		switch v := a.(type) {
		case Admin:
			return nil
		case Agent:
			if v.ID == target.OwnerID {
				return nil
			}
		}
		return utils.ErrUnauthorized

	case OpReadOwn:
		switch v := a.(type) {
		case Admin:
			return nil
		case Agent:
			if v.ID == target.OwnerID {
				return nil
			}
		}
		return utils.ErrUnauthorized

	case OpCreate:
		switch a.(type) {
		case Agent, Admin:
			return nil
		}
		return utils.ErrUnauthorized

	case OpUpdate, OpDelete:
		switch v := a.(type) {
		case Admin:
			return nil
		case Agent:
			if v.ID == target.OwnerID {
				return nil
			}
		case User:
			// Users never own listings; ownership equality would be a data
			// corruption, deny regardless.
		}
		return utils.ErrUnauthorized

	case OpApprove, OpReject:
		if _, ok := a.(Admin); ok {
			return nil
		}
		return utils.ErrUnauthorized
	}

	return utils.ErrUnauthorized
}
