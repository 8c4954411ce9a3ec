package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/pkg/email"
)

// In-memory repository fakes. They mirror the MongoDB implementations closely
// enough for service-level tests: mongo.ErrNoDocuments on misses and
// Normalize() on user writes.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.Normalize()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	user.Normalize()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	for id, u := range r.users {
		if id != exclude && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakePendingRepo struct {
	pending map[primitive.ObjectID]*models.PendingUser
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{pending: make(map[primitive.ObjectID]*models.PendingUser)}
}

func (r *fakePendingRepo) Create(_ context.Context, p *models.PendingUser) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	copied := *p
	r.pending[p.ID] = &copied
	return nil
}

func (r *fakePendingRepo) FindByToken(_ context.Context, token string) (*models.PendingUser, error) {
	for _, p := range r.pending {
		if p.VerificationToken == token {
			copied := *p
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePendingRepo) Update(_ context.Context, p *models.PendingUser) error {
	if _, ok := r.pending[p.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *p
	r.pending[p.ID] = &copied
	return nil
}

func (r *fakePendingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.pending[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.pending, id)
	return nil
}

func (r *fakePendingRepo) DeleteByEmail(_ context.Context, email string) error {
	for id, p := range r.pending {
		if p.Email == email {
			delete(r.pending, id)
		}
	}
	return nil
}

func (r *fakePendingRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, p := range r.pending {
		if p.CreatedAt.Before(cutoff) {
			delete(r.pending, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePendingRepo) DeleteOTPExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, p := range r.pending {
		if !p.OTPExpires.IsZero() && p.OTPExpires.Before(cutoff) {
			delete(r.pending, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePendingRepo) DeleteMalformed(_ context.Context) (int64, error) {
	var n int64
	for id, p := range r.pending {
		if p.OTP == "" || p.OTPExpires.IsZero() {
			delete(r.pending, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePendingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.pending)), nil
}

func (r *fakePendingRepo) CountCreatedAfter(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, p := range r.pending {
		if p.CreatedAt.After(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *fakePendingRepo) CountOTPExpiresBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, p := range r.pending {
		if p.OTPExpires.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *fakePendingRepo) FindOldest(_ context.Context) (*models.PendingUser, error) {
	var oldest *models.PendingUser
	for _, p := range r.pending {
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) {
			oldest = p
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copied := *oldest
	return &copied, nil
}

func (r *fakePendingRepo) FindNewest(_ context.Context) (*models.PendingUser, error) {
	var newest *models.PendingUser
	for _, p := range r.pending {
		if newest == nil || p.CreatedAt.After(newest.CreatedAt) {
			newest = p
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

type fakeCampaignRepo struct {
	campaigns map[primitive.ObjectID]*models.Campaign
	insights  []models.ChannelInsight
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[primitive.ObjectID]*models.Campaign)}
}

func (r *fakeCampaignRepo) Create(_ context.Context, c *models.Campaign) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *fakeCampaignRepo) FindOwned(_ context.Context, id, owner primitive.ObjectID) (*models.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok || c.CreatedBy != owner {
		return nil, mongo.ErrNoDocuments
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCampaignRepo) Find(_ context.Context, owner primitive.ObjectID, query models.CampaignQuery) ([]*models.Campaign, int64, error) {
	var out []*models.Campaign
	for _, c := range r.campaigns {
		if c.CreatedBy != owner {
			continue
		}
		if query.Status != "" && c.Status != query.Status {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(c.AuctionNumber), strings.ToLower(query.Search)) {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, c *models.Campaign) error {
	if _, ok := r.campaigns[c.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *fakeCampaignRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	c, ok := r.campaigns[id]
	if !ok || c.CreatedBy != owner {
		return mongo.ErrNoDocuments
	}
	delete(r.campaigns, id)
	return nil
}

func (r *fakeCampaignRepo) AuctionNumberExists(_ context.Context, auctionNumber string, exclude primitive.ObjectID) (bool, error) {
	for id, c := range r.campaigns {
		if id != exclude && c.AuctionNumber == auctionNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCampaignRepo) Stats(_ context.Context, owner primitive.ObjectID) (*models.CampaignStats, error) {
	stats := &models.CampaignStats{}
	for _, c := range r.campaigns {
		if c.CreatedBy != owner {
			continue
		}
		stats.TotalCampaigns++
		switch c.Status {
		case models.CampaignActive:
			stats.ActiveCampaigns++
		case models.CampaignPlanned:
			stats.PlannedCampaigns++
		case models.CampaignEnded:
			stats.EndedCampaigns++
		}
		stats.TotalBudget += c.Budget
		stats.SpentBudget += c.Performance.SpentBudget
		stats.EstimatedRevenue += c.EstimatedRevenue
		stats.ActualRevenue += c.Performance.ActualRevenue
	}
	// same figure the aggregation pipeline produces: revenue over total budget
	if stats.TotalBudget > 0 {
		stats.AverageROI = stats.EstimatedRevenue / stats.TotalBudget
	}
	return stats, nil
}

func (r *fakeCampaignRepo) ChannelPerformance(_ context.Context, _ primitive.ObjectID, limit int) ([]models.ChannelInsight, error) {
	if len(r.insights) > limit {
		return r.insights[:limit], nil
	}
	return r.insights, nil
}

func (r *fakeCampaignRepo) CountCreatedSince(_ context.Context, owner primitive.ObjectID, since time.Time) (int64, error) {
	var n int64
	for _, c := range r.campaigns {
		if c.CreatedBy == owner && c.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCampaignRepo) CountEndingBetween(_ context.Context, owner primitive.ObjectID, from, to time.Time) (int64, error) {
	var n int64
	for _, c := range r.campaigns {
		if c.CreatedBy == owner && c.EndDate.After(from) && c.EndDate.Before(to) {
			n++
		}
	}
	return n, nil
}

var errFakeMail = errors.New("mail gateway unavailable")

type sentMail struct {
	kind string
	to   email.Recipient
	otp  string
}

// fakeMailer records every send and can be told to fail.
type fakeMailer struct {
	sent     []sentMail
	failNext bool
}

func (m *fakeMailer) send(kind string, to email.Recipient, otp string) error {
	if m.failNext {
		m.failNext = false
		return errFakeMail
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, otp: otp})
	return nil
}

func (m *fakeMailer) SendOTPEmail(_ context.Context, to email.Recipient, otp string) error {
	return m.send("otp", to, otp)
}

func (m *fakeMailer) SendVerificationSuccessEmail(_ context.Context, to email.Recipient) error {
	return m.send("success", to, "")
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, to email.Recipient) error {
	return m.send("welcome", to, "")
}

func (m *fakeMailer) lastOTP() string {
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == "otp" {
			return m.sent[i].otp
		}
	}
	return ""
}
