package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	hotelserrors "lodgera/internal/hotels/errors"
	"lodgera/pkg/config"
	"lodgera/pkg/model"
)

const (
	CollectionName = "Hotels"
)

// HotelRepository is the read side of the hotel catalog. Reservations only
// need to resolve a hotel and one of its embedded rooms.
type HotelRepository interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindRoom(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error)
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoHotelRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	var hotel model.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotelserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}

	return &hotel, nil
}

func (r *mongoHotelRepository) FindRoom(ctx context.Context, hotelID, roomID string) (*model.Hotel, *model.Room, error) {
	hotel, err := r.FindByID(ctx, hotelID)
	if err != nil {
		return nil, nil, err
	}

	room, ok := hotel.FindRoom(roomID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", hotelserrors.ErrRoomNotFound, roomID)
	}

	return hotel, room, nil
}
