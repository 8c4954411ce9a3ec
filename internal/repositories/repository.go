package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restlos-studio/dashboard-backend/internal/models"
)

// UserRepository defines the data access operations for User
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// EmailExists reports whether another user (excluding the given id)
	// already holds the email.
	EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
}

// PendingUserRepository defines the data access operations for PendingUser
type PendingUserRepository interface {
	Create(ctx context.Context, pending *models.PendingUser) error
	FindByToken(ctx context.Context, token string) (*models.PendingUser, error)
	Update(ctx context.Context, pending *models.PendingUser) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOTPExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteMalformed(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedAfter(ctx context.Context, cutoff time.Time) (int64, error)
	CountOTPExpiresBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindOldest(ctx context.Context) (*models.PendingUser, error)
	FindNewest(ctx context.Context) (*models.PendingUser, error)
}

// CampaignRepository defines the data access operations for Campaign
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	// FindOwned returns the campaign only when it belongs to owner.
	FindOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.Campaign, error)
	Find(ctx context.Context, owner primitive.ObjectID, query models.CampaignQuery) ([]*models.Campaign, int64, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
	// AuctionNumberExists reports whether another campaign (excluding the
	// given id) already holds the auction number.
	AuctionNumberExists(ctx context.Context, auctionNumber string, exclude primitive.ObjectID) (bool, error)
	Stats(ctx context.Context, owner primitive.ObjectID) (*models.CampaignStats, error)
	ChannelPerformance(ctx context.Context, owner primitive.ObjectID, limit int) ([]models.ChannelInsight, error)
	CountCreatedSince(ctx context.Context, owner primitive.ObjectID, since time.Time) (int64, error)
	CountEndingBetween(ctx context.Context, owner primitive.ObjectID, from, to time.Time) (int64, error)
}
