package user

import (
	"net/http"

	"github.com/frahmantamala/iam-service/internal"
	"github.com/frahmantamala/iam-service/internal/auth"
	"github.com/frahmantamala/iam-service/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*auth.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

// GetCurrentUser resolves the authenticated principal's own record. The
// store read is only for the projection; authorization already happened
// from the token.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authentication context")
		return
	}

	u, err := h.Service.GetByID(principal.UserID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			status, body := appErr.ToHTTPResponse()
			h.WriteJSON(w, status, body)
			return
		}
		h.Logger.Error("failed to load current user", "error", err, "user_id", principal.UserID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, auth.ToUserResponse(u))
}
