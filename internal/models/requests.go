package models

import "time"

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for registration requests
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// VerifyOTPRequest defines the structure for OTP verification requests
type VerifyOTPRequest struct {
	VerificationToken string `json:"verificationToken" binding:"required"`
	OTP               string `json:"otp" binding:"required"`
}

// ResendOTPRequest defines the structure for OTP resend requests
type ResendOTPRequest struct {
	VerificationToken string `json:"verificationToken" binding:"required"`
}

// CreateUserRequest is the admin payload for creating an account directly.
type CreateUserRequest struct {
	FirstName   string       `json:"firstName" binding:"required"`
	LastName    string       `json:"lastName" binding:"required"`
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=8"`
	Role        string       `json:"role"`
	IsActive    *bool        `json:"isActive"`
	Permissions *Permissions `json:"permissions"`
}

// UpdateUserRequest is the admin payload for partially updating an account.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Email       *string      `json:"email"`
	Role        *string      `json:"role"`
	Password    *string      `json:"password"`
	Approved    *bool        `json:"approved"`
	IsActive    *bool        `json:"isActive"`
	Permissions *Permissions `json:"permissions"`
}

// UpdateProfileRequest is the self-service profile payload. Only admins may
// set the fields beyond names and password.
type UpdateProfileRequest struct {
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Password    *string      `json:"password"`
	Email       *string      `json:"email"`
	Role        *string      `json:"role"`
	Approved    *bool        `json:"approved"`
	Permissions *Permissions `json:"permissions"`
}

// CreateCampaignRequest is the payload for creating a campaign.
type CreateCampaignRequest struct {
	AuctionNumber    string    `json:"auctionNumber" binding:"required"`
	AuctionLink      string    `json:"auctionLink" binding:"required"`
	EndDate          time.Time `json:"endDate" binding:"required"`
	EstimatedRevenue float64   `json:"estimatedRevenue" binding:"required"`
	Budget           float64   `json:"budget" binding:"required"`
	Channels         []string  `json:"channels" binding:"required"`
	MetaAdTypes      []string  `json:"metaAdTypes"`
	GoogleAdTypes    []string  `json:"googleAdTypes"`
	Notes            string    `json:"notes"`
}

// UpdateCampaignRequest is the payload for partially updating a campaign.
type UpdateCampaignRequest struct {
	AuctionNumber    *string    `json:"auctionNumber"`
	AuctionLink      *string    `json:"auctionLink"`
	EndDate          *time.Time `json:"endDate"`
	EstimatedRevenue *float64   `json:"estimatedRevenue"`
	Budget           *float64   `json:"budget"`
	Channels         []string   `json:"channels"`
	MetaAdTypes      []string   `json:"metaAdTypes"`
	GoogleAdTypes    []string   `json:"googleAdTypes"`
	Status           *string    `json:"status"`
	Notes            *string    `json:"notes"`
}

// Campaign list sort keys accepted by the API.
var CampaignSortFields = map[string]bool{
	"createdAt":        true,
	"endDate":          true,
	"budget":           true,
	"estimatedRevenue": true,
}

// CampaignQuery carries the parsed list query parameters.
type CampaignQuery struct {
	Page      int
	Limit     int
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// WelcomeEmailRequest is the admin payload for sending a welcome mail.
type WelcomeEmailRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
}
