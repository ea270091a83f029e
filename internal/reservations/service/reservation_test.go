package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	hotelserrors "lodgera/internal/hotels/errors"
	"lodgera/internal/reservations/validator"
	"lodgera/pkg/config"
	mongotx "lodgera/pkg/db/mongo"
	apperrors "lodgera/pkg/errors"
	"lodgera/pkg/logger"
	"lodgera/pkg/model"
)

// Mock repositories for testing

type mockReservationRepository struct {
	createFunc          func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Reservation, error)
	countConflictsFunc  func(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, exclude string) (int64, error)
	updateStatusFunc    func(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error)
	findForCalendarFunc func(ctx context.Context, hotelID, roomID string, monthStart, monthEnd time.Time) ([]*model.Reservation, error)

	created []*model.Reservation
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	m.created = append(m.created, reservation)
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = "65f000000000000000000001"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReservationRepository) CountConflicts(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, exclude string) (int64, error) {
	if m.countConflictsFunc != nil {
		return m.countConflictsFunc(ctx, hotelID, roomID, checkIn, checkOut, exclude)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) FindByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) FindForCalendar(ctx context.Context, hotelID, roomID string, monthStart, monthEnd time.Time) ([]*model.Reservation, error) {
	if m.findForCalendarFunc != nil {
		return m.findForCalendarFunc(ctx, hotelID, roomID, monthStart, monthEnd)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, reservation)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockReservationRepository) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus model.PaymentStatus) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockHotelRepository struct {
	findRoomFunc func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error)
}

func (m *mockHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	hotel, _, err := m.FindRoom(ctx, id, "")
	return hotel, err
}

func (m *mockHotelRepository) FindRoom(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
	if m.findRoomFunc != nil {
		return m.findRoomFunc(ctx, hotelID, roomID)
	}
	return nil, nil, hotelserrors.ErrNotFound
}

type capturePublisher struct {
	events []*model.ReservationEvent
}

func (p *capturePublisher) Publish(_ context.Context, event *model.ReservationEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

const (
	testHotelID = "507f1f77bcf86cd799439011"
	testRoomID  = "room-101"
)

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:                log,
		DefaultCurrency:    "USD",
		ReservationLockTTL: 10 * time.Second,
		MaxAdvanceDays:     365,
	}
}

func testHotel() (*model.Hotel, *model.Room) {
	hotel := &model.Hotel{
		ID:      testHotelID,
		OwnerID: "owner-1",
		Name:    "Seaside Inn",
		Rooms: []model.Room{
			{RoomID: testRoomID, Type: "double", Capacity: 2, PricePerNight: 100, Available: true},
		},
	}
	return hotel, &hotel.Rooms[0]
}

func newTestService(repo *mockReservationRepository, locks *mockLockRepository, hotels *mockHotelRepository, publisher *capturePublisher) ReservationService {
	cfg := testConfig()
	return NewReservationService(
		repo,
		locks,
		hotels,
		validator.NewReservationValidator(cfg.MaxAdvanceDays, cfg.Log),
		publisher,
		cfg,
	)
}

func testRequest() *model.ReservationRequest {
	now := time.Now().UTC()
	return &model.ReservationRequest{
		HotelID:        testHotelID,
		RoomID:         testRoomID,
		CheckIn:        now.AddDate(0, 0, 7),
		CheckOut:       now.AddDate(0, 0, 10),
		NumberOfGuests: 2,
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockReservationRepository{}
	locks := &mockLockRepository{}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	publisher := &capturePublisher{}
	svc := newTestService(repo, locks, hotels, publisher)

	reservation, err := svc.Create(context.Background(), "guest-1", testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.Status != model.StatusPending {
		t.Errorf("expected status pending, got %s", reservation.Status)
	}
	if reservation.PaymentStatus != model.PaymentPending {
		t.Errorf("expected payment_status pending, got %s", reservation.PaymentStatus)
	}
	if reservation.ReservationID == "" {
		t.Error("expected a generated reservation_id")
	}
	if reservation.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", reservation.Nights)
	}
	if reservation.TotalPrice != 300 {
		t.Errorf("expected total price 300, got %.2f", reservation.TotalPrice)
	}
	if reservation.Currency != "USD" {
		t.Errorf("expected default currency USD, got %s", reservation.Currency)
	}
	if reservation.OwnerID != "owner-1" {
		t.Errorf("expected owner attribution from the hotel, got %s", reservation.OwnerID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected the slot lock to be released, deletions: %v", locks.deleted)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != model.EventReservationCreated {
		t.Errorf("expected a reservation.created event, got %+v", publisher.events)
	}
}

func TestCreate_DateConflict(t *testing.T) {
	repo := &mockReservationRepository{
		countConflictsFunc: func(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, exclude string) (int64, error) {
			return 1, nil
		},
	}
	locks := &mockLockRepository{}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	svc := newTestService(repo, locks, hotels, &capturePublisher{})

	_, err := svc.Create(context.Background(), "guest-1", testRequest())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("nothing must be inserted on conflict, got %d inserts", len(repo.created))
	}
}

func TestCreate_CapacityExceeded(t *testing.T) {
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	svc := newTestService(&mockReservationRepository{}, &mockLockRepository{}, hotels, &capturePublisher{})

	req := testRequest()
	req.NumberOfGuests = 3

	_, err := svc.Create(context.Background(), "guest-1", req)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for guests over capacity, got %v", err)
	}
}

func TestCreate_HotelNotFound(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockLockRepository{}, &mockHotelRepository{}, &capturePublisher{})

	_, err := svc.Create(context.Background(), "guest-1", testRequest())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreate_LockContention(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	repo := &mockReservationRepository{}
	svc := newTestService(repo, locks, hotels, &capturePublisher{})

	_, err := svc.Create(context.Background(), "guest-1", testRequest())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT on lock contention, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("nothing must be inserted when the lock is held, got %d inserts", len(repo.created))
	}
}

func TestValidateAndCompute_DoesNotPersist(t *testing.T) {
	repo := &mockReservationRepository{}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, hotels, &capturePublisher{})

	booking, err := svc.ValidateAndCompute(context.Background(), "guest-1", testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Nights != 3 || booking.TotalPrice != 300 {
		t.Errorf("expected 3 nights at 100 = 300, got %d nights, total %.2f", booking.Nights, booking.TotalPrice)
	}
	if booking.OwnerID != "owner-1" {
		t.Errorf("expected owner attribution, got %s", booking.OwnerID)
	}
	if len(repo.created) != 0 {
		t.Errorf("ValidateAndCompute must not insert, got %d inserts", len(repo.created))
	}
}

func TestCreateAfterPayment_PaidStatus(t *testing.T) {
	repo := &mockReservationRepository{}
	publisher := &capturePublisher{}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, hotels, publisher)

	booking, err := svc.ValidateAndCompute(context.Background(), "guest-1", testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reservation, err := svc.CreateAfterPayment(context.Background(), "guest-1", "6f9619ff-8b86-4d01-b42d-00cf4fc964ff", booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.ReservationID != "6f9619ff-8b86-4d01-b42d-00cf4fc964ff" {
		t.Errorf("expected the caller-fixed reservation_id, got %s", reservation.ReservationID)
	}
	if reservation.PaymentStatus != model.PaymentPaid {
		t.Errorf("expected payment_status paid, got %s", reservation.PaymentStatus)
	}
	if reservation.Status != model.StatusPending {
		t.Errorf("paid reservations still await owner confirmation, got %s", reservation.Status)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != model.EventCheckoutCompleted {
		t.Errorf("expected a checkout_completed event, got %+v", publisher.events)
	}
}

func TestCreateAfterPayment_RejectsMalformedReservationID(t *testing.T) {
	repo := &mockReservationRepository{}
	hotels := &mockHotelRepository{
		findRoomFunc: func(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
			hotel, room := testHotel()
			return hotel, room, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, hotels, &capturePublisher{})

	booking, err := svc.ValidateAndCompute(context.Background(), "guest-1", testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.CreateAfterPayment(context.Background(), "guest-1", "not-a-uuid", booking)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("expected no insert for an invalid document, got %d", len(repo.created))
	}
}

func TestUpdateStatus_OwnerConfirms(t *testing.T) {
	stored := &model.Reservation{
		ID:            "65f000000000000000000001",
		ReservationID: "6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
		GuestID:       "guest-1",
		OwnerID:       "owner-1",
		Status:        model.StatusPending,
	}
	var persisted *model.Reservation
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			clone := *stored
			return &clone, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error) {
			persisted = reservation
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	publisher := &capturePublisher{}
	svc := newTestService(repo, &mockLockRepository{}, &mockHotelRepository{}, publisher)

	reservation, err := svc.UpdateStatus(context.Background(), stored.ID, model.StatusConfirmed, "owner-1", model.RoleOwner, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", reservation.Status)
	}
	if persisted == nil || persisted.ConfirmedAt == nil {
		t.Error("expected confirmed_at to be persisted")
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(publisher.events))
	}
	if publisher.events[0].Type != model.EventReservationStatusChanged || publisher.events[0].PreviousStatus != model.StatusPending {
		t.Errorf("expected status_changed event with previous pending, got %+v", publisher.events[0])
	}
}

func TestUpdateStatus_CancelReasonPersistedVerbatim(t *testing.T) {
	stored := &model.Reservation{
		ID:            "65f000000000000000000001",
		ReservationID: "6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
		GuestID:       "guest-1",
		OwnerID:       "owner-1",
		Status:        model.StatusPending,
	}
	var persisted *model.Reservation
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			clone := *stored
			return &clone, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error) {
			persisted = reservation
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockHotelRepository{}, &capturePublisher{})

	reason := "flight  was\tcancelled"
	reservation, err := svc.UpdateStatus(context.Background(), stored.ID, model.StatusCancelled, "guest-1", model.RoleGuest, reason)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.CancellationReason != reason {
		t.Errorf("expected reason stored verbatim %q, got %q", reason, reservation.CancellationReason)
	}
	if persisted == nil || persisted.CancellationReason != reason {
		t.Errorf("expected persisted reason %q, got %+v", reason, persisted)
	}
}

func TestUpdateStatus_GuestCannotConfirm(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID: "65f000000000000000000001", GuestID: "guest-1", OwnerID: "owner-1", Status: model.StatusPending,
			}, nil
		},
	}
	publisher := &capturePublisher{}
	svc := newTestService(repo, &mockLockRepository{}, &mockHotelRepository{}, publisher)

	_, err := svc.UpdateStatus(context.Background(), "65f000000000000000000001", model.StatusConfirmed, "guest-1", model.RoleGuest, "")
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Errorf("no event must be published on a rejected transition, got %d", len(publisher.events))
	}
}

func TestCheckAvailability(t *testing.T) {
	var gotExclude string
	repo := &mockReservationRepository{
		countConflictsFunc: func(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, exclude string) (int64, error) {
			gotExclude = exclude
			return 0, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockHotelRepository{}, &capturePublisher{})

	now := time.Now().UTC()
	available, err := svc.CheckAvailability(context.Background(), testHotelID, testRoomID, now.AddDate(0, 0, 1), now.AddDate(0, 0, 3), "some-reservation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("expected available with zero conflicts")
	}
	if gotExclude != "some-reservation" {
		t.Errorf("expected exclusion to reach the repository, got %q", gotExclude)
	}

	_, err = svc.CheckAvailability(context.Background(), testHotelID, testRoomID, now.AddDate(0, 0, 3), now.AddDate(0, 0, 3), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for an empty date range, got %v", err)
	}
}

func TestCalendar_MonthBounds(t *testing.T) {
	var gotStart, gotEnd time.Time
	repo := &mockReservationRepository{
		findForCalendarFunc: func(ctx context.Context, hotelID, roomID string, monthStart, monthEnd time.Time) ([]*model.Reservation, error) {
			gotStart, gotEnd = monthStart, monthEnd
			return []*model.Reservation{}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockHotelRepository{}, &capturePublisher{})

	_, err := svc.Calendar(context.Background(), testHotelID, "", 2026, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gotStart.Equal(wantStart) || !gotEnd.Equal(wantEnd) {
		t.Errorf("expected window [%v, %v), got [%v, %v)", wantStart, wantEnd, gotStart, gotEnd)
	}

	if _, err := svc.Calendar(context.Background(), testHotelID, "", 2026, 13); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for month 13, got %v", err)
	}
}
