package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reservationserrors "lodgera/internal/reservations/errors"
	"lodgera/pkg/config"
	mongotx "lodgera/pkg/db/mongo"
	"lodgera/pkg/model"
)

const (
	CollectionName = "Reservations"
)

type mongoReservationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	CountConflicts(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (int64, error)
	FindByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	CountByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter) (int64, error)
	FindByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	CountByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter) (int64, error)
	FindForCalendar(ctx context.Context, hotelID, roomID string, monthStart, monthEnd time.Time) ([]*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error)
	UpdatePaymentStatus(ctx context.Context, id string, paymentStatus model.PaymentStatus) (*mongo.UpdateResult, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext breaks
// transaction semantics.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

// FindByID accepts either a Mongo ObjectID hex or a reservation UUID. The
// ObjectID form is tried first; anything else falls through to a lookup on
// the reservation_id field.
func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
		var reservation model.Reservation
		err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
		if err == nil {
			return &reservation, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to find reservation: %w", err)
		}
	}

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"reservation_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

// CountConflicts counts reservations in a blocking status whose half-open
// date range [check_in, check_out) intersects the requested one. The three
// $or branches cover a stay starting inside, ending inside, or fully
// containing the requested range.
func (r *mongoReservationRepository) CountConflicts(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"hotel_id": hotelID,
		"room_id":  roomID,
		"status":   bson.M{"$in": model.BlockingStatuses},
		"$or": []bson.M{
			{"check_in": bson.M{"$gte": checkIn, "$lt": checkOut}},
			{"check_out": bson.M{"$gt": checkIn, "$lte": checkOut}},
			{"check_in": bson.M{"$lte": checkIn}, "check_out": bson.M{"$gte": checkOut}},
		},
	}
	if excludeReservationID != "" {
		filter["reservation_id"] = bson.M{"$ne": excludeReservationID}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count conflicting reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) FindByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	return r.findFiltered(ctx, bson.M{"guest_id": guestID}, filter, limit, offset)
}

func (r *mongoReservationRepository) CountByGuest(ctx context.Context, guestID string, filter *model.ReservationFilter) (int64, error) {
	return r.countFiltered(ctx, bson.M{"guest_id": guestID}, filter)
}

func (r *mongoReservationRepository) FindByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	return r.findFiltered(ctx, bson.M{"owner_id": ownerID}, filter, limit, offset)
}

func (r *mongoReservationRepository) CountByOwner(ctx context.Context, ownerID string, filter *model.ReservationFilter) (int64, error) {
	return r.countFiltered(ctx, bson.M{"owner_id": ownerID}, filter)
}

func (r *mongoReservationRepository) findFiltered(ctx context.Context, base bson.M, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, applyFilter(base, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) countFiltered(ctx context.Context, base bson.M, filter *model.ReservationFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, applyFilter(base, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func applyFilter(base bson.M, filter *model.ReservationFilter) bson.M {
	if filter == nil {
		return base
	}

	if filter.Status != "" {
		base["status"] = filter.Status
	}
	if filter.HotelID != "" {
		base["hotel_id"] = filter.HotelID
	}
	// FromDate bounds the check-in, ToDate bounds the check-out, so the
	// window selects stays contained in [from, to].
	if filter.FromDate != nil {
		base["check_in"] = bson.M{"$gte": *filter.FromDate}
	}
	if filter.ToDate != nil {
		base["check_out"] = bson.M{"$lte": *filter.ToDate}
	}

	return base
}

// FindForCalendar returns reservations intersecting [monthStart, monthEnd),
// ordered by check-in. Cancelled and rejected stays are left out, completed
// ones stay visible on the calendar.
func (r *mongoReservationRepository) FindForCalendar(ctx context.Context, hotelID, roomID string, monthStart, monthEnd time.Time) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"hotel_id": hotelID,
		"status":   bson.M{"$in": []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusCompleted}},
		"$or": []bson.M{
			{"check_in": bson.M{"$gte": monthStart, "$lt": monthEnd}},
			{"check_out": bson.M{"$gt": monthStart, "$lte": monthEnd}},
			{"check_in": bson.M{"$lte": monthStart}, "check_out": bson.M{"$gte": monthEnd}},
		},
	}
	if roomID != "" {
		filter["room_id"] = roomID
	}

	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode calendar reservations: %w", err)
	}

	return reservations, nil
}

// UpdateStatus persists the lifecycle fields of an already-transitioned
// reservation. The id is the Mongo _id hex.
func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, reservation *model.Reservation) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     reservation.Status,
		"updated_at": reservation.UpdatedAt,
	}
	if reservation.CancelledAt != nil {
		set["cancelled_at"] = reservation.CancelledAt
		set["cancellation_reason"] = reservation.CancellationReason
	}
	if reservation.ConfirmedAt != nil {
		set["confirmed_at"] = reservation.ConfirmedAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, reservationserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoReservationRepository) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus model.PaymentStatus) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"payment_status": paymentStatus,
		"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, reservationserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
