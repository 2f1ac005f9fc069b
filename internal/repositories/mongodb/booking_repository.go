package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

// FindConflicting is the availability ledger query: a booking blocks a date
// range only once it is approved AND holds money. Overlap is inclusive on
// both bounds (existing.start <= end && existing.end >= start).
func (r *bookingRepository) FindConflicting(ctx context.Context, vehicleID primitive.ObjectID, start, end time.Time) (*models.Booking, error) {
	filter := bson.M{
		"vehicleId": vehicleID,
		"status":    models.BookingStatusApproved,
		"paymentStatus": bson.M{
			"$in": []models.PaymentStatus{models.PaymentStatusHalfPaid, models.PaymentStatusFullPaid},
		},
		"startDate": bson.M{"$lte": end},
		"endDate":   bson.M{"$gte": start},
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByRenter(ctx context.Context, userID primitive.ObjectID, paidOnly bool) ([]*models.Booking, error) {
	filter := bson.M{"userId": userID}
	if paidOnly {
		filter["paymentStatus"] = bson.M{
			"$in": []models.PaymentStatus{models.PaymentStatusHalfPaid, models.PaymentStatusFullPaid},
		}
	}

	return r.find(ctx, filter)
}

func (r *bookingRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

func (r *bookingRepository) find(ctx context.Context, filter bson.M) ([]*models.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) DeleteStaleUnpaid(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":        models.BookingStatusApproved,
		"paymentStatus": models.PaymentStatusPending,
		"createdAt":     bson.M{"$lte": cutoff},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale bookings: %w", err)
	}

	return result.DeletedCount, nil
}
