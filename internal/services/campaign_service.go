package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
)

const maxNotesLength = 1000

// CampaignList is the paginated list result.
type CampaignList struct {
	Campaigns  []*models.Campaign
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CampaignStatsWithInsights bundles the aggregate totals with the extra
// dashboard figures.
type CampaignStatsWithInsights struct {
	models.CampaignStats
	Insights models.CampaignInsights `json:"insights"`
}

// CampaignService handles marketing campaign CRUD and dashboard statistics.
// Campaigns are always scoped to their owner.
type CampaignService struct {
	campaignRepo repositories.CampaignRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(campaignRepo repositories.CampaignRepository, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		logger:       logger.Named("campaigns"),
		now:          time.Now,
	}
}

// List returns the owner's campaigns for the given query.
func (s *CampaignService) List(ctx context.Context, owner primitive.ObjectID, query models.CampaignQuery) (*CampaignList, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 10
	}
	if !models.CampaignSortFields[query.SortBy] {
		query.SortBy = "createdAt"
	}
	if query.SortOrder != "asc" {
		query.SortOrder = "desc"
	}
	if query.Status != "" && !models.ValidCampaignStatus(query.Status) {
		return nil, validationErr("invalid status: %s", query.Status)
	}

	campaigns, total, err := s.campaignRepo.Find(ctx, owner, query)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return &CampaignList{
		Campaigns:  campaigns,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns one of the owner's campaigns.
func (s *CampaignService) Get(ctx context.Context, id, owner primitive.ObjectID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindOwned(ctx, id, owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// Create validates and stores a new campaign for the owner. The initial
// status is derived from the end date.
func (s *CampaignService) Create(ctx context.Context, owner primitive.ObjectID, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	if err := validateCreateCampaign(req); err != nil {
		return nil, err
	}

	exists, err := s.campaignRepo.AuctionNumberExists(ctx, strings.TrimSpace(req.AuctionNumber), primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAuctionNumberTaken
	}

	campaign := &models.Campaign{
		AuctionNumber:    strings.TrimSpace(req.AuctionNumber),
		AuctionLink:      strings.TrimSpace(req.AuctionLink),
		EndDate:          req.EndDate,
		EstimatedRevenue: req.EstimatedRevenue,
		Budget:           req.Budget,
		Channels:         req.Channels,
		MetaAdTypes:      req.MetaAdTypes,
		GoogleAdTypes:    req.GoogleAdTypes,
		Status:           models.DeriveInitialStatus(req.EndDate, s.now()),
		Notes:            req.Notes,
		CreatedBy:        owner,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		// the unique index is the real guarantee under concurrent creates
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAuctionNumberTaken
		}
		return nil, err
	}

	s.logger.Info("campaign created",
		zap.String("auctionNumber", campaign.AuctionNumber),
		zap.String("owner", owner.Hex()))
	return campaign, nil
}

// Update applies a partial update to one of the owner's campaigns. Changing
// the end date auto-transitions active campaigns past their end to ended and
// ended campaigns with a future end back to planned.
func (s *CampaignService) Update(ctx context.Context, id, owner primitive.ObjectID, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindOwned(ctx, id, owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	if err := validateUpdateCampaign(req); err != nil {
		return nil, err
	}

	storedStatus := campaign.Status

	if req.AuctionNumber != nil {
		number := strings.TrimSpace(*req.AuctionNumber)
		if number != campaign.AuctionNumber {
			exists, err := s.campaignRepo.AuctionNumberExists(ctx, number, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrAuctionNumberTaken
			}
			campaign.AuctionNumber = number
		}
	}
	if req.AuctionLink != nil {
		campaign.AuctionLink = strings.TrimSpace(*req.AuctionLink)
	}
	if req.EstimatedRevenue != nil {
		campaign.EstimatedRevenue = *req.EstimatedRevenue
	}
	if req.Budget != nil {
		campaign.Budget = *req.Budget
	}
	if req.Channels != nil {
		campaign.Channels = req.Channels
	}
	if req.MetaAdTypes != nil {
		campaign.MetaAdTypes = req.MetaAdTypes
	}
	if req.GoogleAdTypes != nil {
		campaign.GoogleAdTypes = req.GoogleAdTypes
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if req.Notes != nil {
		campaign.Notes = *req.Notes
	}
	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
		now := s.now()
		// the transition is decided from the status the campaign had before
		// this update and wins over a status sent in the same request
		if storedStatus == models.CampaignActive && !campaign.EndDate.After(now) {
			campaign.Status = models.CampaignEnded
		} else if storedStatus == models.CampaignEnded && campaign.EndDate.After(now) {
			campaign.Status = models.CampaignPlanned
		}
	}

	// ad types are conditionally required, so revalidate the combined state
	if err := validateChannelSelection(campaign.Channels, campaign.MetaAdTypes, campaign.GoogleAdTypes); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAuctionNumberTaken
		}
		return nil, err
	}
	return campaign, nil
}

// Delete removes one of the owner's campaigns.
func (s *CampaignService) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	if err := s.campaignRepo.DeleteOwned(ctx, id, owner); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrCampaignNotFound
		}
		return err
	}
	s.logger.Info("campaign deleted", zap.String("id", id.Hex()))
	return nil
}

// Stats computes the owner's dashboard statistics and insights.
func (s *CampaignService) Stats(ctx context.Context, owner primitive.ObjectID) (*CampaignStatsWithInsights, error) {
	stats, err := s.campaignRepo.Stats(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	insights := models.CampaignInsights{}

	if top, err := s.campaignRepo.ChannelPerformance(ctx, owner, 3); err != nil {
		s.logger.Warn("channel performance aggregation failed", zap.Error(err))
		insights.TopChannels = []models.ChannelInsight{}
	} else {
		insights.TopChannels = top
	}
	if recent, err := s.campaignRepo.CountCreatedSince(ctx, owner, now.AddDate(0, 0, -7)); err == nil {
		insights.RecentCampaigns = recent
		insights.WeeklyGrowth = recent
	}
	if ending, err := s.campaignRepo.CountEndingBetween(ctx, owner, now, now.AddDate(0, 0, 7)); err == nil {
		insights.EndingSoon = ending
	}

	return &CampaignStatsWithInsights{
		CampaignStats: *stats,
		Insights:      insights,
	}, nil
}

func validateCreateCampaign(req *models.CreateCampaignRequest) error {
	if strings.TrimSpace(req.AuctionNumber) == "" {
		return validationErr("auction number is required")
	}
	if strings.TrimSpace(req.AuctionLink) == "" {
		return validationErr("auction link is required")
	}
	if err := validateLink(req.AuctionLink); err != nil {
		return err
	}
	if req.EndDate.IsZero() {
		return validationErr("end date is required")
	}
	if req.EstimatedRevenue <= 0 {
		return validationErr("estimated revenue must be greater than 0")
	}
	if req.Budget <= 0 {
		return validationErr("budget must be greater than 0")
	}
	if len(req.Channels) == 0 {
		return validationErr("at least one channel must be selected")
	}
	if len(req.Notes) > maxNotesLength {
		return validationErr("notes must be at most %d characters", maxNotesLength)
	}
	return validateChannelSelection(req.Channels, req.MetaAdTypes, req.GoogleAdTypes)
}

func validateUpdateCampaign(req *models.UpdateCampaignRequest) error {
	if req.AuctionNumber != nil && strings.TrimSpace(*req.AuctionNumber) == "" {
		return validationErr("auction number must not be empty")
	}
	if req.AuctionLink != nil {
		if strings.TrimSpace(*req.AuctionLink) == "" {
			return validationErr("auction link must not be empty")
		}
		if err := validateLink(*req.AuctionLink); err != nil {
			return err
		}
	}
	if req.EndDate != nil && req.EndDate.IsZero() {
		return validationErr("invalid end date")
	}
	if req.EstimatedRevenue != nil && *req.EstimatedRevenue <= 0 {
		return validationErr("estimated revenue must be greater than 0")
	}
	if req.Budget != nil && *req.Budget <= 0 {
		return validationErr("budget must be greater than 0")
	}
	if req.Channels != nil && len(req.Channels) == 0 {
		return validationErr("at least one channel must be selected")
	}
	if req.Status != nil && !models.ValidCampaignStatus(*req.Status) {
		return validationErr("invalid status: %s", *req.Status)
	}
	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return validationErr("notes must be at most %d characters", maxNotesLength)
	}
	return nil
}

func validateLink(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validationErr("auction link must be a valid URL")
	}
	return nil
}

// validateChannelSelection checks the channel enums and the conditional ad
// type requirements for meta and google.
func validateChannelSelection(channels, metaAdTypes, googleAdTypes []string) error {
	hasMeta, hasGoogle := false, false
	for _, ch := range channels {
		if !models.ValidChannel(ch) {
			return validationErr("invalid channel: %s", ch)
		}
		switch ch {
		case models.ChannelMeta:
			hasMeta = true
		case models.ChannelGoogle:
			hasGoogle = true
		}
	}

	if hasMeta {
		if len(metaAdTypes) == 0 {
			return validationErr("at least one ad type is required for the meta channel")
		}
		for _, t := range metaAdTypes {
			if !models.ValidMetaAdType(t) {
				return validationErr("invalid meta ad type: %s", t)
			}
		}
	}
	if hasGoogle {
		if len(googleAdTypes) == 0 {
			return validationErr("at least one ad type is required for the google channel")
		}
		for _, t := range googleAdTypes {
			if !models.ValidGoogleAdType(t) {
				return validationErr("invalid google ad type: %s", t)
			}
		}
	}
	return nil
}
