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

// Compile-time check to ensure CampaignRepository implements the interface
var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository handles MongoDB operations for Campaign
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create inserts a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := r.collection.InsertOne(ctx, campaign)
	return err
}

// FindOwned returns the campaign only when it belongs to owner.
func (r *CampaignRepository) FindOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	filter := bson.M{"_id": id, "createdBy": owner}
	err := r.collection.FindOne(ctx, filter).Decode(&campaign)
	if err != nil {
		return nil, err // includes mongo.ErrNoDocuments
	}
	return &campaign, nil
}

// Find lists the owner's campaigns with filtering, sorting and pagination.
func (r *CampaignRepository) Find(ctx context.Context, owner primitive.ObjectID, query models.CampaignQuery) ([]*models.Campaign, int64, error) {
	filter := bson.M{"createdBy": owner}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Search != "" {
		filter["auctionNumber"] = bson.M{"$regex": query.Search, "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	order := -1
	if query.SortOrder == "asc" {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: query.SortBy, Value: order}}).
		SetSkip(int64((query.Page - 1) * query.Limit)).
		SetLimit(int64(query.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, 0, err
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, total, nil
}

// Update updates an existing campaign
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": campaign.ID}, bson.M{"$set": campaign})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteOwned deletes the campaign only when it belongs to owner.
func (r *CampaignRepository) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "createdBy": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AuctionNumberExists reports whether another campaign already holds the
// auction number.
func (r *CampaignRepository) AuctionNumberExists(ctx context.Context, auctionNumber string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"auctionNumber": auctionNumber}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Stats aggregates per-status counts and budget/revenue sums for one owner in
// a single pipeline.
func (r *CampaignRepository) Stats(ctx context.Context, owner primitive.ObjectID) (*models.CampaignStats, error) {
	statusCount := func(status string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdBy": owner}}},
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"totalCampaigns":   bson.M{"$sum": 1},
			"activeCampaigns":  statusCount(models.CampaignActive),
			"plannedCampaigns": statusCount(models.CampaignPlanned),
			"endedCampaigns":   statusCount(models.CampaignEnded),
			"totalBudget":      bson.M{"$sum": "$budget"},
			"spentBudget":      bson.M{"$sum": "$performance.spentBudget"},
			"estimatedRevenue": bson.M{"$sum": "$estimatedRevenue"},
			"actualRevenue":    bson.M{"$sum": "$performance.actualRevenue"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.CampaignStats
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.CampaignStats{}, nil
	}

	stats := results[0]
	if stats.TotalBudget > 0 {
		stats.AverageROI = stats.EstimatedRevenue / stats.TotalBudget
	}
	return &stats, nil
}

// ChannelPerformance breaks the owner's campaigns down per channel, sorted by
// average ROI.
func (r *CampaignRepository) ChannelPerformance(ctx context.Context, owner primitive.ObjectID, limit int) ([]models.ChannelInsight, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdBy": owner}}},
		{{Key: "$unwind", Value: "$channels"}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$channels",
			"count":        bson.M{"$sum": 1},
			"totalBudget":  bson.M{"$sum": "$budget"},
			"totalRevenue": bson.M{"$sum": "$estimatedRevenue"},
			"avgRoi": bson.M{"$avg": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$budget", 0}},
				bson.M{"$divide": bson.A{"$estimatedRevenue", "$budget"}},
				0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgRoi", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var insights []models.ChannelInsight
	if err = cursor.All(ctx, &insights); err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []models.ChannelInsight{}
	}
	return insights, nil
}

// CountCreatedSince counts the owner's campaigns created after since.
func (r *CampaignRepository) CountCreatedSince(ctx context.Context, owner primitive.ObjectID, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"createdBy": owner,
		"createdAt": bson.M{"$gte": since},
	})
}

// CountEndingBetween counts active or planned campaigns ending in [from, to].
func (r *CampaignRepository) CountEndingBetween(ctx context.Context, owner primitive.ObjectID, from, to time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"createdBy": owner,
		"status":    bson.M{"$in": bson.A{models.CampaignActive, models.CampaignPlanned}},
		"endDate":   bson.M{"$gte": from, "$lte": to},
	})
}
