package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses.
const (
	CampaignDraft   = "draft"
	CampaignPlanned = "planned"
	CampaignActive  = "active"
	CampaignEnded   = "ended"
	CampaignPaused  = "paused"
)

// Advertising channels.
const (
	ChannelMeta       = "meta"
	ChannelGoogle     = "google"
	ChannelLinkedIn   = "linkedin"
	ChannelNewsletter = "newsletter"
)

// ValidCampaignStatus reports whether status is a known campaign status.
func ValidCampaignStatus(status string) bool {
	switch status {
	case CampaignDraft, CampaignPlanned, CampaignActive, CampaignEnded, CampaignPaused:
		return true
	}
	return false
}

// ValidChannel reports whether channel is a known advertising channel.
func ValidChannel(channel string) bool {
	switch channel {
	case ChannelMeta, ChannelGoogle, ChannelLinkedIn, ChannelNewsletter:
		return true
	}
	return false
}

// ValidMetaAdType reports whether t is a known Meta ad type.
func ValidMetaAdType(t string) bool {
	switch t {
	case "single-image", "carousel", "video", "collection":
		return true
	}
	return false
}

// ValidGoogleAdType reports whether t is a known Google Ads ad type.
func ValidGoogleAdType(t string) bool {
	switch t {
	case "search", "display", "video", "performance-max":
		return true
	}
	return false
}

// CampaignPerformance is the tracking sub-record updated by external systems.
type CampaignPerformance struct {
	Clicks        int64   `bson:"clicks" json:"clicks"`
	Impressions   int64   `bson:"impressions" json:"impressions"`
	Conversions   int64   `bson:"conversions" json:"conversions"`
	SpentBudget   float64 `bson:"spentBudget" json:"spentBudget"`
	ActualRevenue float64 `bson:"actualRevenue" json:"actualRevenue"`
}

// Campaign represents a marketing campaign owned by exactly one user.
type Campaign struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	AuctionNumber    string              `bson:"auctionNumber" json:"auctionNumber"`
	AuctionLink      string              `bson:"auctionLink" json:"auctionLink"`
	EndDate          time.Time           `bson:"endDate" json:"endDate"`
	EstimatedRevenue float64             `bson:"estimatedRevenue" json:"estimatedRevenue"`
	Budget           float64             `bson:"budget" json:"budget"`
	Channels         []string            `bson:"channels" json:"channels"`
	MetaAdTypes      []string            `bson:"metaAdTypes,omitempty" json:"metaAdTypes,omitempty"`
	GoogleAdTypes    []string            `bson:"googleAdTypes,omitempty" json:"googleAdTypes,omitempty"`
	Status           string              `bson:"status" json:"status"`
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Performance      CampaignPerformance `bson:"performance" json:"performance"`
	CreatedBy        primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ROI returns estimated revenue over budget, 0 when there is no budget.
func (c *Campaign) ROI() float64 {
	if c.Budget <= 0 {
		return 0
	}
	return c.EstimatedRevenue / c.Budget
}

// ActualROI returns actual revenue over spent budget, 0 when nothing was spent.
func (c *Campaign) ActualROI() float64 {
	if c.Performance.SpentBudget <= 0 {
		return 0
	}
	return c.Performance.ActualRevenue / c.Performance.SpentBudget
}

// IsLive reports whether the campaign is active and not yet past its end date.
func (c *Campaign) IsLive(now time.Time) bool {
	return c.Status == CampaignActive && c.EndDate.After(now)
}

// MarshalJSON includes the derived roi, actualRoi and isActive fields in API
// responses without storing them.
func (c Campaign) MarshalJSON() ([]byte, error) {
	type alias Campaign
	return json.Marshal(struct {
		alias
		ROI       float64 `json:"roi"`
		ActualROI float64 `json:"actualRoi"`
		IsActive  bool    `json:"isActive"`
	}{
		alias:     alias(c),
		ROI:       c.ROI(),
		ActualROI: c.ActualROI(),
		IsActive:  c.IsLive(time.Now()),
	})
}

// DeriveInitialStatus returns the status a new campaign starts in.
func DeriveInitialStatus(endDate, now time.Time) string {
	if endDate.After(now) {
		return CampaignPlanned
	}
	return CampaignEnded
}

// CampaignStats aggregates the dashboard figures for one owner.
type CampaignStats struct {
	TotalCampaigns   int64   `bson:"totalCampaigns" json:"totalCampaigns"`
	ActiveCampaigns  int64   `bson:"activeCampaigns" json:"activeCampaigns"`
	PlannedCampaigns int64   `bson:"plannedCampaigns" json:"plannedCampaigns"`
	EndedCampaigns   int64   `bson:"endedCampaigns" json:"endedCampaigns"`
	TotalBudget      float64 `bson:"totalBudget" json:"totalBudget"`
	SpentBudget      float64 `bson:"spentBudget" json:"spentBudget"`
	EstimatedRevenue float64 `bson:"estimatedRevenue" json:"estimatedRevenue"`
	ActualRevenue    float64 `bson:"actualRevenue" json:"actualRevenue"`
	AverageROI       float64 `bson:"-" json:"averageRoi"`
}

// ChannelInsight is one row of the per-channel performance breakdown.
type ChannelInsight struct {
	Channel      string  `bson:"_id" json:"channel"`
	Count        int64   `bson:"count" json:"count"`
	TotalBudget  float64 `bson:"totalBudget" json:"totalBudget"`
	TotalRevenue float64 `bson:"totalRevenue" json:"totalRevenue"`
	AvgROI       float64 `bson:"avgRoi" json:"avgRoi"`
}

// CampaignInsights carries the extra dashboard figures beyond raw totals.
type CampaignInsights struct {
	TopChannels     []ChannelInsight `json:"topChannels"`
	RecentCampaigns int64            `json:"recentCampaigns"`
	EndingSoon      int64            `json:"endingSoon"`
	WeeklyGrowth    int64            `json:"weeklyGrowth"`
}
