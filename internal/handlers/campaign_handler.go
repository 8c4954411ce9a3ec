package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/services"
)

// CampaignHandler handles campaign HTTP requests. All routes are owner-scoped
// through the authenticated user's ID.
type CampaignHandler struct {
	campaignService *services.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// ListCampaigns handles GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	query := models.CampaignQuery{
		Page:      page,
		Limit:     limit,
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}

	list, err := h.campaignService.List(c.Request.Context(), owner, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": list.Campaigns,
		"pagination": gin.H{
			"total":      list.Total,
			"page":       list.Page,
			"limit":      list.Limit,
			"totalPages": list.TotalPages,
		},
	})
}

// GetCampaign handles GET /api/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), id, owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// CreateCampaign handles POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Auction number, auction link, end date, estimated revenue, budget and channels are required"})
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), owner, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// UpdateCampaign handles PUT /api/campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), id, owner, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /api/campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), id, owner); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// GetCampaignStats handles GET /api/campaigns/stats
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	_, owner, ok := callerID(c)
	if !ok {
		return
	}

	stats, err := h.campaignService.Stats(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
