package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

// ActingUserKey holds the acting user's record in the request context.
const ActingUserKey contextKey = "actingUser"

// GetActingUser extracts the acting user from the request context. Nil when
// the request carried no identity.
func GetActingUser(r *http.Request) *core.Record {
	if val, ok := r.Context().Value(ActingUserKey).(*core.Record); ok {
		return val
	}
	return nil
}

// ActingUserMiddleware resolves the X-User header to a users record and
// stores it in the request context, so permission-gated computations
// receive the acting identity explicitly instead of an ambient one.
func ActingUserMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userID := e.Request.Header.Get("X-User")
		if userID != "" {
			user, err := app.FindRecordById("users", userID)
			if err != nil {
				log.Printf("middleware: user %s not found: %v", userID, err)
			} else {
				ctx := context.WithValue(e.Request.Context(), ActingUserKey, user)
				e.Request = e.Request.WithContext(ctx)
			}
		}
		return e.Next()
	}
}
