package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
)

// Compile-time check to ensure PendingUserRepository implements the interface
var _ repositories.PendingUserRepository = (*PendingUserRepository)(nil)

// PendingUserRepository handles MongoDB operations for PendingUser
type PendingUserRepository struct {
	collection *mongo.Collection
}

// NewPendingUserRepository creates a new PendingUserRepository
func NewPendingUserRepository(db *mongo.Database) *PendingUserRepository {
	return &PendingUserRepository{
		collection: db.Collection("pending_users"),
	}
}

// Create inserts a new pending registration
func (r *PendingUserRepository) Create(ctx context.Context, pending *models.PendingUser) error {
	pending.ID = primitive.NewObjectID()
	pending.CreatedAt = time.Now()
	pending.UpdatedAt = pending.CreatedAt
	_, err := r.collection.InsertOne(ctx, pending)
	return err
}

// FindByToken finds a pending registration by its verification token
func (r *PendingUserRepository) FindByToken(ctx context.Context, token string) (*models.PendingUser, error) {
	var pending models.PendingUser
	err := r.collection.FindOne(ctx, bson.M{"verificationToken": token}).Decode(&pending)
	if err != nil {
		return nil, err // includes mongo.ErrNoDocuments
	}
	return &pending, nil
}

// Update updates an existing pending registration
func (r *PendingUserRepository) Update(ctx context.Context, pending *models.PendingUser) error {
	pending.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pending.ID}, bson.M{"$set": pending})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a pending registration by ID
func (r *PendingUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByEmail removes any pending registration for the email. Used when a
// registration is retried before the previous one completed.
func (r *PendingUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"email": email})
	return err
}

// DeleteCreatedBefore removes pending registrations older than cutoff.
func (r *PendingUserRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteOTPExpiredBefore removes pending registrations whose OTP expired
// before cutoff.
func (r *PendingUserRepository) DeleteOTPExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"otpExpires": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteMalformed removes records missing their OTP fields.
func (r *PendingUserRepository) DeleteMalformed(ctx context.Context) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"otp": bson.M{"$exists": false}},
		bson.M{"otp": nil},
		bson.M{"otp": ""},
		bson.M{"otpExpires": bson.M{"$exists": false}},
		bson.M{"otpExpires": nil},
	}}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Count returns the number of pending registrations
func (r *PendingUserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountCreatedAfter counts pending registrations created after cutoff
func (r *PendingUserRepository) CountCreatedAfter(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": cutoff}})
}

// CountOTPExpiresBefore counts pending registrations whose OTP expires before cutoff
func (r *PendingUserRepository) CountOTPExpiresBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"otpExpires": bson.M{"$lt": cutoff}})
}

// FindOldest returns the oldest pending registration, or nil when empty.
func (r *PendingUserRepository) FindOldest(ctx context.Context) (*models.PendingUser, error) {
	return r.findOneSorted(ctx, 1)
}

// FindNewest returns the newest pending registration, or nil when empty.
func (r *PendingUserRepository) FindNewest(ctx context.Context) (*models.PendingUser, error) {
	return r.findOneSorted(ctx, -1)
}

func (r *PendingUserRepository) findOneSorted(ctx context.Context, order int) (*models.PendingUser, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: order}})
	var pending models.PendingUser
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&pending)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}
