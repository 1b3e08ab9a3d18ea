// Package http provides the HTTP handlers and routing for the task
// manager API: registration, login, profile and ownership-scoped task
// CRUD.
package http

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhub/backend/internal/models"
	"github.com/taskhub/backend/internal/validation"
)

// userPayload is the public shape of a user in API responses. The
// password hash never leaves the server.
type userPayload struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

func publicUser(u *models.User) userPayload {
	return userPayload{ID: u.ID, Name: u.Name, Email: u.Email}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} response with the given status code.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationErrors writes a 400 response carrying the complete list
// of field violations.
func writeValidationErrors(w http.ResponseWriter, errs []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  errs,
	})
}
