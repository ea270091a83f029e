package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lodgera/internal/notifications/repository"
	apperrors "lodgera/pkg/errors"
	httputil "lodgera/pkg/http"
	"lodgera/pkg/logger"
	"lodgera/pkg/middleware"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
	log  *logger.Logger
}

func NewNotificationHandler(repo repository.NotificationRepository, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, log: log}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, _ := middleware.ActorFrom(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	notifications, err := h.repo.FindByRecipient(r.Context(), actorID, limit, offset)
	if err != nil {
		h.log.Error("Failed to list notifications", "recipient_id", actorID, "error", err)
		h.writeError(w, apperrors.Internal("Failed to retrieve notifications", err), "List")
		return
	}

	if err := httputil.WriteSuccess(w, notifications); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.repo.MarkRead(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()), "MarkRead")
		return
	}
	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, err error, handlerName string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.PATCH("/api/v1/notifications/id/:id/read", h.MarkRead)
}
