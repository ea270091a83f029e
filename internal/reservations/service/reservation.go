package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"lodgera/internal/events"
	hotelserrors "lodgera/internal/hotels/errors"
	hotelsrepository "lodgera/internal/hotels/repository"
	reservationserrors "lodgera/internal/reservations/errors"
	"lodgera/internal/reservations/repository"
	"lodgera/internal/reservations/validator"
	"lodgera/pkg/config"
	apperrors "lodgera/pkg/errors"
	"lodgera/pkg/model"
	"lodgera/pkg/sanitizer"
)

type ReservationService interface {
	Create(ctx context.Context, guestID string, req *model.ReservationRequest) (*model.Reservation, error)
	ValidateAndCompute(ctx context.Context, guestID string, req *model.ReservationRequest) (*model.ComputedBooking, error)
	CreateAfterPayment(ctx context.Context, guestID, reservationID string, booking *model.ComputedBooking) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, newStatus model.Status, actorID string, role model.ActorRole, reason string) (*model.Reservation, error)
	CheckAvailability(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error)
	ListByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	Calendar(ctx context.Context, hotelID, roomID string, year, month int) ([]*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ReservationLockRepository
	hotelRepo hotelsrepository.HotelRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	hotelRepo hotelsrepository.HotelRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		hotelRepo: hotelRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs the direct booking path. The reservation is persisted in
// pending status with payment still due.
func (s *reservationService) Create(ctx context.Context, guestID string, req *model.ReservationRequest) (*model.Reservation, error) {
	booking, err := s.ValidateAndCompute(ctx, guestID, req)
	if err != nil {
		return nil, err
	}

	reservation := s.buildReservation(guestID, uuid.NewString(), booking, model.PaymentPending)
	if err := s.persistGuarded(ctx, reservation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, reservation, model.EventReservationCreated, "")

	s.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ReservationID,
		"hotel_id", reservation.HotelID,
		"room_id", reservation.RoomID,
		"check_in", reservation.CheckIn,
		"check_out", reservation.CheckOut,
	)
	return reservation, nil
}

// ValidateAndCompute validates the request, resolves pricing and ownership
// and checks availability, without persisting anything. The checkout flow
// calls this before charging.
func (s *reservationService) ValidateAndCompute(ctx context.Context, guestID string, req *model.ReservationRequest) (*model.ComputedBooking, error) {
	if guestID == "" {
		return nil, apperrors.InvalidInput("Guest ID cannot be empty")
	}

	s.sanitize(req)
	now := time.Now().UTC()
	if err := s.validator.ValidateRequest(req, now); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	hotel, room, err := s.hotelRepo.FindRoom(ctx, req.HotelID, req.RoomID)
	if err != nil {
		return nil, s.mapHotelError(err, req.HotelID, req.RoomID)
	}

	if err := s.validator.ValidateCapacity(req.NumberOfGuests, room); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	checkIn := validator.Midnight(req.CheckIn)
	checkOut := validator.Midnight(req.CheckOut)

	available, err := s.CheckAvailability(ctx, req.HotelID, req.RoomID, checkIn, checkOut, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.Conflict("Room is not available for the selected dates")
	}

	nights := validator.Nights(checkIn, checkOut)
	currency := req.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	return &model.ComputedBooking{
		HotelID:         hotel.ID,
		RoomID:          room.RoomID,
		OwnerID:         hotel.OwnerID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          nights,
		NumberOfGuests:  req.NumberOfGuests,
		GuestDetails:    req.GuestDetails,
		SpecialRequests: req.SpecialRequests,
		PricePerNight:   room.PricePerNight,
		TotalPrice:      float64(nights) * room.PricePerNight,
		Currency:        currency,
	}, nil
}

// CreateAfterPayment persists a booking whose payment already settled. The
// reservation id is fixed by the caller so the payment ledger row and the
// document share it. Availability is re-checked under the slot lock because
// the room may have been taken while the charge was in flight.
func (s *reservationService) CreateAfterPayment(ctx context.Context, guestID, reservationID string, booking *model.ComputedBooking) (*model.Reservation, error) {
	if guestID == "" || reservationID == "" {
		return nil, apperrors.InvalidInput("Guest ID and reservation ID cannot be empty")
	}

	reservation := s.buildReservation(guestID, reservationID, booking, model.PaymentPaid)
	if err := s.persistGuarded(ctx, reservation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, reservation, model.EventCheckoutCompleted, "")

	s.cfg.Log.Info("Paid reservation created",
		"reservation_id", reservation.ReservationID,
		"hotel_id", reservation.HotelID,
		"total_price", reservation.TotalPrice,
	)
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

// UpdateStatus applies a lifecycle transition on behalf of an actor. Role
// and ownership checks happen before the transition table lookup.
func (s *reservationService) UpdateStatus(ctx context.Context, id string, newStatus model.Status, actorID string, role model.ActorRole, reason string) (*model.Reservation, error) {
	if actorID == "" {
		return nil, apperrors.Unauthorized("Actor identity is required")
	}

	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := reservation.Status
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := reservation.ApplyTransition(newStatus, actorID, role, reason, now); err != nil {
		s.cfg.Log.Warn("Reservation transition rejected",
			"reservation_id", reservation.ReservationID,
			"from", previous,
			"to", newStatus,
			"role", role,
			"error", err,
		)
		return nil, err
	}

	if _, err := s.repo.UpdateStatus(ctx, reservation.ID, reservation); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to update reservation status", err)
	}

	s.publishEvent(ctx, reservation, model.EventReservationStatusChanged, previous)

	s.cfg.Log.Info("Reservation status updated",
		"reservation_id", reservation.ReservationID,
		"from", previous,
		"to", newStatus,
		"actor_role", role,
	)
	return reservation, nil
}

// CheckAvailability reports whether the room has no blocking reservation
// overlapping [checkIn, checkOut). excludeReservationID leaves one
// reservation out of the check, for reschedule flows.
func (s *reservationService) CheckAvailability(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	if hotelID == "" || roomID == "" {
		return false, apperrors.InvalidInput("Hotel ID and room ID are required")
	}
	if !validator.Midnight(checkOut).After(validator.Midnight(checkIn)) {
		return false, apperrors.InvalidInput("check_out must be after check_in")
	}

	count, err := s.repo.CountConflicts(ctx, hotelID, roomID, validator.Midnight(checkIn), validator.Midnight(checkOut), excludeReservationID)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "hotel_id", hotelID, "room_id", roomID, "error", err)
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return count == 0, nil
}

func (s *reservationService) ListByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if guestID == "" {
		return nil, 0, apperrors.InvalidInput("Guest ID cannot be empty")
	}
	return s.list(ctx, filter, limit, offset,
		func(ctx context.Context) ([]*model.Reservation, error) {
			return s.repo.FindByGuest(ctx, guestID, filter, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByGuest(ctx, guestID, filter)
		},
	)
}

func (s *reservationService) ListByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	return s.list(ctx, filter, limit, offset,
		func(ctx context.Context) ([]*model.Reservation, error) {
			return s.repo.FindByOwner(ctx, ownerID, filter, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByOwner(ctx, ownerID, filter)
		},
	)
}

func (s *reservationService) list(
	ctx context.Context,
	filter *model.ReservationFilter,
	limit int, offset int64,
	find func(context.Context) ([]*model.Reservation, error),
	count func(context.Context) (int64, error),
) ([]*model.Reservation, int64, error) {
	if filter != nil && filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown reservation status: %s", filter.Status))
	}

	var total int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, total, nil
}

// Calendar returns the reservations touching the given month for a hotel,
// optionally narrowed to one room.
func (s *reservationService) Calendar(ctx context.Context, hotelID, roomID string, year, month int) ([]*model.Reservation, error) {
	if hotelID == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("month must be between 1 and 12, got: %d", month))
	}
	if year < 2000 || year > 2200 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("year out of range: %d", year))
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	reservations, err := s.repo.FindForCalendar(ctx, hotelID, roomID, monthStart, monthEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation calendar", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to load reservation calendar", err)
	}

	return reservations, nil
}

// --- Helpers ---

func (s *reservationService) sanitize(req *model.ReservationRequest) {
	req.GuestDetails.Name = sanitizer.NormalizeName(req.GuestDetails.Name)
	req.GuestDetails.Email = sanitizer.NormalizeEmail(req.GuestDetails.Email)
	req.GuestDetails.Phone = sanitizer.NormalizePhone(req.GuestDetails.Phone)
	req.GuestDetails.SpecialRequests = sanitizer.NormalizeFreeText(req.GuestDetails.SpecialRequests)
	req.SpecialRequests = sanitizer.NormalizeFreeText(req.SpecialRequests)
}

func (s *reservationService) buildReservation(guestID, reservationID string, booking *model.ComputedBooking, paymentStatus model.PaymentStatus) *model.Reservation {
	return &model.Reservation{
		ReservationID:   reservationID,
		HotelID:         booking.HotelID,
		RoomID:          booking.RoomID,
		GuestID:         guestID,
		OwnerID:         booking.OwnerID,
		CheckIn:         booking.CheckIn,
		CheckOut:        booking.CheckOut,
		Nights:          booking.Nights,
		NumberOfGuests:  booking.NumberOfGuests,
		GuestDetails:    booking.GuestDetails,
		PricePerNight:   booking.PricePerNight,
		TotalPrice:      booking.TotalPrice,
		Currency:        booking.Currency,
		Status:          model.StatusPending,
		PaymentStatus:   paymentStatus,
		SpecialRequests: booking.SpecialRequests,
	}
}

// persistGuarded inserts the reservation under an advisory slot lock and a
// transaction that re-checks for conflicting dates. Two concurrent creates
// for the same slot either collide on the lock or the second one sees the
// first insert inside the transaction.
func (s *reservationService) persistGuarded(ctx context.Context, reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		return apperrors.Validation("Reservation document is invalid", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireSlotLock(ctx, reservation)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := s.repo.CountConflicts(sessCtx, reservation.HotelID, reservation.RoomID, reservation.CheckIn, reservation.CheckOut, reservation.ReservationID)
		if err != nil {
			return apperrors.Internal("Failed to check availability", err)
		}
		if count > 0 {
			return apperrors.Conflict("Room is not available for the selected dates")
		}

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to persist reservation", "reservation_id", reservation.ReservationID, "error", err)
		return err
	}
	return nil
}

func (s *reservationService) acquireSlotLock(ctx context.Context, reservation *model.Reservation) (string, error) {
	lockID := fmt.Sprintf("reservation_lock_%s_%s_%d_%d",
		reservation.HotelID,
		reservation.RoomID,
		reservation.CheckIn.Unix(),
		reservation.CheckOut.Unix(),
	)

	lock := &model.ReservationLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.ReservationLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("These dates are currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *reservationService) mapHotelError(err error, hotelID, roomID string) error {
	switch {
	case errors.Is(err, hotelserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Hotel", hotelID)
	case errors.Is(err, hotelserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid hotel ID format")
	case errors.Is(err, hotelserrors.ErrRoomNotFound):
		return apperrors.NotFoundWithID("Room", roomID)
	default:
		return apperrors.Internal("Failed to resolve hotel", err)
	}
}

func (s *reservationService) publishEvent(ctx context.Context, reservation *model.Reservation, eventType string, previous model.Status) {
	event := &model.ReservationEvent{
		Type:           eventType,
		ReservationID:  reservation.ReservationID,
		HotelID:        reservation.HotelID,
		RoomID:         reservation.RoomID,
		GuestID:        reservation.GuestID,
		OwnerID:        reservation.OwnerID,
		Status:         reservation.Status,
		PreviousStatus: previous,
		PaymentStatus:  reservation.PaymentStatus,
		TotalPrice:     reservation.TotalPrice,
		Currency:       reservation.Currency,
		OccurredAt:     time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ReservationID,
			"error", err,
		)
	}
}
