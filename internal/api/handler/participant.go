package handler

import (
	"net/http"

	"github.com/mcoot/cardwar/internal/api/middleware"
	"github.com/mcoot/cardwar/internal/model"
)

// ConnectionHeader lets a client name its transport connection. Without it
// the remote address is used.
const ConnectionHeader = "X-Connection-ID"

// participant builds the engine identity for the authenticated caller
func participant(r *http.Request) model.Participant {
	user := middleware.MustGetUser(r.Context())
	addr := r.Header.Get(ConnectionHeader)
	if addr == "" {
		addr = r.RemoteAddr
	}
	return model.Participant{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Address:     addr,
	}
}
