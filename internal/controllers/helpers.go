package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/middleware"
	"github.com/openlistings/backend/internal/models"
)

// actorFromRequest rebuilds the request identity from whatever the auth
// middleware put in the context. Absent or unparseable claims yield
// Anonymous, never an error; the guard decides what Anonymous may do.
func actorFromRequest(r *http.Request) auth.Actor {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return auth.Anonymous{}
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return auth.Anonymous{}
	}

	roleStr, _ := r.Context().Value(middleware.ContextKeyRole).(string)
	role, err := models.ParseUserRole(roleStr)
	if err != nil {
		return auth.User{ID: id}
	}
	return auth.FromRole(role, id)
}

// userIDFromRequest is the shortcut for handlers that only need identity.
func userIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	a := actorFromRequest(r)
	id := auth.ActorID(a)
	return id, id != uuid.Nil
}
