package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"lodgera/internal/reservations/service"
	apperrors "lodgera/pkg/errors"
	httputil "lodgera/pkg/http"
	"lodgera/pkg/logger"
	"lodgera/pkg/middleware"
	"lodgera/pkg/model"
	"lodgera/pkg/sealer"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, role := middleware.ActorFrom(r.Context())
	if role != model.RoleGuest {
		h.writeError(w, apperrors.Forbidden("Only guests can create reservations"), "Create")
		return
	}

	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	actorID, role := middleware.ActorFrom(r.Context())
	if (role == model.RoleGuest && reservation.GuestID != actorID) ||
		(role == model.RoleOwner && reservation.OwnerID != actorID) {
		h.writeError(w, apperrors.Forbidden("You do not have access to this reservation"), "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	actorID, role := middleware.ActorFrom(r.Context())

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), id, req.Status, actorID, role, req.Reason)
	if err != nil {
		h.writeError(w, err, "UpdateStatus")
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

// List returns the caller's reservations: bookings they made for guests,
// bookings at their hotels for owners.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, role := middleware.ActorFrom(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	filter, err := extractFilter(r)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	var reservations []*model.Reservation
	var total int64
	switch role {
	case model.RoleGuest:
		reservations, total, err = h.service.ListByGuest(r.Context(), actorID, filter, limit, offset)
	case model.RoleOwner:
		reservations, total, err = h.service.ListByOwner(r.Context(), actorID, filter, limit, offset)
	default:
		err = apperrors.Forbidden(fmt.Sprintf("unknown actor role: %s", role))
	}
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	hotelID := query.Get("hotel_id")
	roomID := query.Get("room_id")

	checkIn, err := httputil.ExtractDate(r, "check_in")
	if err != nil {
		h.writeError(w, err, "CheckAvailability")
		return
	}
	checkOut, err := httputil.ExtractDate(r, "check_out")
	if err != nil {
		h.writeError(w, err, "CheckAvailability")
		return
	}
	if checkIn == nil || checkOut == nil {
		h.writeError(w, apperrors.InvalidInput("check_in and check_out query parameters are required"), "CheckAvailability")
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), hotelID, roomID, *checkIn, *checkOut, query.Get("exclude_reservation_id"))
	if err != nil {
		h.writeError(w, err, "CheckAvailability")
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"hotel_id":  hotelID,
		"room_id":   roomID,
		"check_in":  checkIn,
		"check_out": checkOut,
		"available": available,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("hotel_id")
	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid year parameter: %s", query.Get("year"))), "Calendar")
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid month parameter: %s", query.Get("month"))), "Calendar")
		return
	}

	reservations, err := h.service.Calendar(r.Context(), hotelID, query.Get("room_id"), year, month)
	if err != nil {
		h.writeError(w, err, "Calendar")
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "operation", "WriteSuccess", "error", err)
	}
}

// Share issues an opaque link token for a reservation the guest owns.
func (h *ReservationHandler) Share(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID, role := middleware.ActorFrom(r.Context())
	if role != model.RoleGuest {
		h.writeError(w, apperrors.Forbidden("Only guests can share reservations"), "Share")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "Share")
		return
	}
	if reservation.GuestID != actorID {
		h.writeError(w, apperrors.Forbidden("You do not have access to this reservation"), "Share")
		return
	}

	token, err := sealer.CreateShareToken(reservation.ReservationID, reservation.GuestID)
	if err != nil {
		h.log.Error("failed to create share token", "reservation_id", reservation.ReservationID, "error", err)
		h.writeError(w, apperrors.Internal("Failed to create share token", err), "Share")
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"share_token": token}); err != nil {
		h.log.Error("failed to write success response", "handler", "Share", "operation", "WriteSuccess", "error", err)
	}
}

// GetShared resolves a share token. The token is bound to the guest who
// created it, so it stops working if the reservation changes hands.
func (h *ReservationHandler) GetShared(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservationID, sharerID, err := sealer.ParseShareToken(ps.ByName("token"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid share token"), "GetShared")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), reservationID)
	if err != nil {
		h.writeError(w, err, "GetShared")
		return
	}
	if reservation.GuestID != sharerID {
		h.writeError(w, apperrors.InvalidInput("Invalid share token"), "GetShared")
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetShared", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, err error, handlerName string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func extractFilter(r *http.Request) (*model.ReservationFilter, error) {
	query := r.URL.Query()

	fromDate, err := httputil.ExtractDate(r, "from_date")
	if err != nil {
		return nil, err
	}
	toDate, err := httputil.ExtractDate(r, "to_date")
	if err != nil {
		return nil, err
	}

	return &model.ReservationFilter{
		Status:   model.Status(query.Get("status")),
		HotelID:  query.Get("hotel_id"),
		FromDate: fromDate,
		ToDate:   toDate,
	}, nil
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id/status", h.UpdateStatus)
	router.POST("/api/v1/reservations/id/:id/share", h.Share)
	router.GET("/api/v1/reservations/shared/:token", h.GetShared)
	router.GET("/api/v1/availability", h.CheckAvailability)
	router.GET("/api/v1/hotels/:hotel_id/calendar", h.Calendar)
}
