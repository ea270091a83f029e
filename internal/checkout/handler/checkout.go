package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lodgera/internal/checkout/service"
	paymentsservice "lodgera/internal/payments/service"
	reservationsservice "lodgera/internal/reservations/service"
	apperrors "lodgera/pkg/errors"
	httputil "lodgera/pkg/http"
	"lodgera/pkg/logger"
	"lodgera/pkg/middleware"
	"lodgera/pkg/model"
)

type CheckoutHandler struct {
	service      service.CheckoutService
	payments     paymentsservice.PaymentService
	reservations reservationsservice.ReservationService
	log          *logger.Logger
}

func NewCheckoutHandler(
	service service.CheckoutService,
	payments paymentsservice.PaymentService,
	reservations reservationsservice.ReservationService,
	log *logger.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		service:      service,
		payments:     payments,
		reservations: reservations,
		log:          log,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, role := middleware.ActorFrom(r.Context())
	if role != model.RoleGuest {
		h.writeError(w, apperrors.Forbidden("Only guests can check out"), "Checkout")
		return
	}

	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Checkout", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Checkout(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Checkout")
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Checkout", "operation", "WriteCreated", "error", err)
	}
}

// ListPayments exposes the ledger rows of one reservation to its guest and
// the owner of the booked hotel.
func (h *CheckoutHandler) ListPayments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservationID := ps.ByName("reservation_id")

	reservation, err := h.reservations.GetByID(r.Context(), reservationID)
	if err != nil {
		h.writeError(w, err, "ListPayments")
		return
	}

	actorID, role := middleware.ActorFrom(r.Context())
	if (role == model.RoleGuest && reservation.GuestID != actorID) ||
		(role == model.RoleOwner && reservation.OwnerID != actorID) {
		h.writeError(w, apperrors.Forbidden("You do not have access to these payments"), "ListPayments")
		return
	}

	payments, err := h.payments.GetByReservation(r.Context(), reservationID)
	if err != nil {
		h.writeError(w, err, "ListPayments")
		return
	}

	if err := httputil.WriteSuccess(w, payments); err != nil {
		h.log.Error("failed to write success response", "handler", "ListPayments", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, err error, handlerName string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CheckoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/checkout", h.Checkout)
	router.GET("/api/v1/reservations/id/:reservation_id/payments", h.ListPayments)
}
