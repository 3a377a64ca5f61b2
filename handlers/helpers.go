// Package handlers exposes the JSON API the desktop frontend talks to.
package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// jsonError writes a {"error": message} body with the given status.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// jsonOK writes a 200 response with the given payload.
func jsonOK(e *core.RequestEvent, payload any) error {
	return e.JSON(http.StatusOK, payload)
}
