package auth

import (
	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/models"
)

// Actor is a closed variant over the four request identities. Keeping the
// set closed forces every guard decision through an exhaustive switch, so a
// new role cannot silently pass checks.
type Actor interface {
	actor()
}

type Anonymous struct{}

type User struct {
	ID uuid.UUID
}

type Agent struct {
	ID uuid.UUID
}

type Admin struct {
	ID uuid.UUID
}

func (Anonymous) actor() {}
func (User) actor()      {}
func (Agent) actor()     {}
func (Admin) actor()     {}

// FromRole builds the Actor for an authenticated account.
func FromRole(role models.UserRole, id uuid.UUID) Actor {
	switch role {
	case models.RoleAgent:
		return Agent{ID: id}
	case models.RoleAdmin:
		return Admin{ID: id}
	default:
		return User{ID: id}
	}
}

// ActorID returns the account id, or uuid.Nil for Anonymous.
func ActorID(a Actor) uuid.UUID {
	switch v := a.(type) {
	case User:
		return v.ID
	case Agent:
		return v.ID
	case Admin:
		return v.ID
	default:
		return uuid.Nil
	}
}

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(a Actor) bool {
	_, ok := a.(Admin)
	return ok
}
