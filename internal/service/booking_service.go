package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/metrics"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

// CampaignRepositoryInterface defines the campaign data access the
// booking service needs.
type CampaignRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Campaign, error)
	AdjustBookedSlots(ctx context.Context, tx database.TxQuerier, id int64, delta int) error
	AddRevenue(ctx context.Context, tx database.TxQuerier, id int64, cents int64) error
}

// BookingRepositoryInterface defines the booking data access.
type BookingRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Booking, error)
	RouteOccupancy(ctx context.Context, tx database.TxQuerier, campaignID, routeID int64) (int, error)
	SetApproval(ctx context.Context, tx database.TxQuerier, id int64, status string, note *string) error
	SetPayment(ctx context.Context, tx database.TxQuerier, id int64, status string, amountPaid int64, paidAt *time.Time) error
	SetArtwork(ctx context.Context, id int64, status string, file, reason *string) error
	SetDesign(ctx context.Context, tx database.TxQuerier, id int64, status string, revisionCount int) error
	MarkCancelled(ctx context.Context, tx database.TxQuerier, id int64, reason, refundStatus string, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
}

// PricingRuleRepositoryInterface defines the rule data access used
// during price resolution and commit.
type PricingRuleRepositoryInterface interface {
	ListCandidates(ctx context.Context, campaignID, userID int64) ([]*model.PricingRule, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.PricingRule, error)
	IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error
	InsertApplication(ctx context.Context, tx database.TxQuerier, app *model.PricingRuleApplication) error
}

// UserRepositoryInterface defines the user data access for loyalty and
// referral bookkeeping.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error)
	UpdateLoyalty(ctx context.Context, tx database.TxQuerier, id int64, slotsEarned, discountsAvailable, yearReset int) error
	SetReferralStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error
}

// RouteGetter resolves the mail route a booking targets.
type RouteGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Route, error)
}

// WaitlistInserter creates waitlist entries when reservations are
// diverted.
type WaitlistInserter interface {
	Insert(ctx context.Context, e *model.WaitlistEntry) error
}

// DesignRepositoryInterface defines the design revision data access.
type DesignRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, rev *model.DesignRevision) error
	LatestByBooking(ctx context.Context, bookingID int64) (*model.DesignRevision, error)
	SetStatus(ctx context.Context, tx database.TxQuerier, id int64, status string, feedback *string) error
}

// CapacityFreedHook is invoked after a release commits so matching
// waitlist entries can be notified. Implementations must be best effort.
type CapacityFreedHook interface {
	OnCapacityFreed(ctx context.Context, campaignID, routeID, industryID int64)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookingService implements slot allocation, price resolution commit and
// the booking lifecycle.
type BookingService struct {
	pool             TxBeginner
	pricing          PricingConfig
	slotsPerRoute    int
	retryLimit       int
	loyaltyThreshold int

	campaignRepo CampaignRepositoryInterface
	bookingRepo  BookingRepositoryInterface
	ruleRepo     PricingRuleRepositoryInterface
	userRepo     UserRepositoryInterface
	routeRepo    RouteGetter
	waitlistRepo WaitlistInserter
	designRepo   DesignRepositoryInterface
	onFreed      CapacityFreedHook
}

// BookingServiceDeps bundles the collaborators of a BookingService.
type BookingServiceDeps struct {
	Campaigns CampaignRepositoryInterface
	Bookings  BookingRepositoryInterface
	Rules     PricingRuleRepositoryInterface
	Users     UserRepositoryInterface
	Routes    RouteGetter
	Waitlist  WaitlistInserter
	Designs   DesignRepositoryInterface
	OnFreed   CapacityFreedHook
}

// BookingServiceConfig carries the domain tunables.
type BookingServiceConfig struct {
	Pricing          PricingConfig
	SlotsPerRoute    int
	RetryLimit       int
	LoyaltyThreshold int
}

// NewBookingService creates a BookingService backed by a pgx pool.
func NewBookingService(pool *pgxpool.Pool, cfg BookingServiceConfig, deps BookingServiceDeps) *BookingService {
	return newBookingService(pool, cfg, deps)
}

// NewBookingServiceWithTxBeginner creates a BookingService with a custom
// TxBeginner. Primarily used for testing.
func NewBookingServiceWithTxBeginner(pool TxBeginner, cfg BookingServiceConfig, deps BookingServiceDeps) *BookingService {
	return newBookingService(pool, cfg, deps)
}

func newBookingService(pool TxBeginner, cfg BookingServiceConfig, deps BookingServiceDeps) *BookingService {
	if cfg.SlotsPerRoute <= 0 {
		cfg.SlotsPerRoute = 16
	}
	if cfg.LoyaltyThreshold <= 0 {
		cfg.LoyaltyThreshold = 10
	}
	return &BookingService{
		pool:             pool,
		pricing:          cfg.Pricing,
		slotsPerRoute:    cfg.SlotsPerRoute,
		retryLimit:       cfg.RetryLimit,
		loyaltyThreshold: cfg.LoyaltyThreshold,
		campaignRepo:     deps.Campaigns,
		bookingRepo:      deps.Bookings,
		ruleRepo:         deps.Rules,
		userRepo:         deps.Users,
		routeRepo:        deps.Routes,
		waitlistRepo:     deps.Waitlist,
		designRepo:       deps.Designs,
		onFreed:          deps.OnFreed,
	}
}

// Create reserves slots for a booking request, resolves its price and
// commits everything in a single transaction. When capacity is exhausted
// the request is diverted to the waitlist and the response carries
// waitlisted=true.
//
// The campaign row lock serializes the capacity check-and-increment, so
// two concurrent requests for the last slot cannot both succeed. Pricing
// is resolved under the same lock; if the chosen rule's usage cap is hit
// between candidate listing and commit, resolution is retried up to the
// configured bound before surfacing ErrRuleConflict.
func (s *BookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
	if req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}
	if req.PriceOverrideCents != nil && req.PriceOverrideNote == nil {
		return nil, fmt.Errorf("%w: price override needs a note", ErrNoteRequired)
	}

	start := time.Now()
	var resp *model.BookingResponse
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = s.tryCreate(ctx, req)
		if !errors.Is(err, ErrRuleExhausted) {
			break
		}
		if attempt >= s.retryLimit {
			err = ErrRuleConflict
			break
		}
		log.Warn().Int64("campaign_id", req.CampaignID).Msg("pricing rule exhausted mid-flight, retrying resolution")
	}
	metrics.BookingCreateDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.BookingsCreated.WithLabelValues("rejected").Inc()
	case resp.Waitlisted:
		metrics.BookingsCreated.WithLabelValues("waitlisted").Inc()
	default:
		metrics.BookingsCreated.WithLabelValues("confirmed").Inc()
	}
	return resp, err
}

func (s *BookingService) tryCreate(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
	quantity := *req.Quantity

	route, err := s.routeRepo.GetByID(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	if route.Status != model.RouteStatusActive {
		return nil, fmt.Errorf("%w: route %s is %s", ErrInvalidRequest, route.ZipCode, route.Status)
	}

	// Candidate rules are listed outside the transaction; the winner's cap
	// is re-checked under its row lock before commit.
	candidates, err := s.ruleRepo.ListCandidates(ctx, req.CampaignID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("list candidate rules: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the campaign row; all slot accounting happens under this lock.
	campaign, err := s.campaignRepo.GetForUpdate(ctx, tx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusBookingOpen {
		return nil, fmt.Errorf("%w: campaign is %s", ErrBookingClosed, campaign.Status)
	}

	// 2. Capacity check for the route and the campaign as a whole.
	occupied, err := s.bookingRepo.RouteOccupancy(ctx, tx, req.CampaignID, req.RouteID)
	if err != nil {
		return nil, err
	}
	if occupied+quantity > s.slotsPerRoute || campaign.BookedSlots+quantity > campaign.TotalSlots {
		// Divert to the waitlist. The entry is created outside the
		// transaction; nothing was reserved.
		_ = tx.Rollback(ctx)
		metrics.SlotReservationConflicts.Inc()
		entry := &model.WaitlistEntry{
			UserID:        req.UserID,
			CampaignID:    req.CampaignID,
			RouteID:       req.RouteID,
			IndustryID:    req.IndustryID,
			SubcategoryID: req.SubcategoryID,
			Quantity:      quantity,
			Status:        model.WaitlistStatusActive,
		}
		if err := s.waitlistRepo.Insert(ctx, entry); err != nil {
			return nil, fmt.Errorf("insert waitlist entry: %w", err)
		}
		return &model.BookingResponse{Waitlisted: true, Waitlist: entry}, nil
	}

	// 3. Lock the user and roll loyalty counters into the current year.
	user, err := s.userRepo.GetForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, err
	}
	year := time.Now().UTC().Year()
	if user.LoyaltyYearReset < year {
		user.LoyaltySlotsEarned = 0
		user.LoyaltyYearReset = year
		if err := s.userRepo.UpdateLoyalty(ctx, tx, user.ID, 0, user.LoyaltyDiscountsAvailable, year); err != nil {
			return nil, err
		}
	}

	// 4. Resolve the price.
	breakdown := ComputePrice(s.pricing, campaign, user, candidates, quantity, req.PriceOverrideCents)

	// 5. Insert the booking; its id doubles as the slot-hold token.
	now := time.Now().UTC()
	booking := &model.Booking{
		UserID:                 req.UserID,
		CampaignID:             req.CampaignID,
		RouteID:                req.RouteID,
		IndustryID:             req.IndustryID,
		SubcategoryID:          req.SubcategoryID,
		Quantity:               quantity,
		AmountCents:            breakdown.FinalAmountCents,
		BasePriceCents:         breakdown.BasePriceCents,
		PriceOverrideCents:     req.PriceOverrideCents,
		PriceOverrideNote:      req.PriceOverrideNote,
		LoyaltyDiscountApplied: breakdown.LoyaltyDiscountApplied,
		AppliedRuleID:          breakdown.AppliedRuleID,
		Status:                 model.BookingStatusConfirmed,
		PaymentStatus:          model.PaymentStatusPending,
		ApprovalStatus:         model.ApprovalStatusPending,
		ArtworkStatus:          model.ArtworkStatusPendingUpload,
		DesignStatus:           model.DesignStatusPendingDesign,
		RefundStatus:           model.RefundStatusNone,
	}
	if req.ContractAccepted {
		booking.ContractAcceptedAt = &now
	}
	if err := s.bookingRepo.Insert(ctx, tx, booking); err != nil {
		return nil, err
	}

	// 6. Commit the rule application: re-check the cap under the rule's
	// row lock, then record the audit row and bump usage exactly once.
	if breakdown.AppliedRuleID != nil {
		rule, err := s.ruleRepo.GetForUpdate(ctx, tx, *breakdown.AppliedRuleID)
		if err != nil {
			return nil, err
		}
		if rule.Exhausted() || rule.Status != model.RuleStatusActive {
			return nil, ErrRuleExhausted
		}
		app := &model.PricingRuleApplication{
			RuleID:        rule.ID,
			BookingID:     booking.ID,
			UserID:        user.ID,
			DiscountCents: breakdown.BasePriceCents - breakdown.FinalAmountCents,
		}
		if err := s.ruleRepo.InsertApplication(ctx, tx, app); err != nil {
			return nil, err
		}
		if err := s.ruleRepo.IncrementUsage(ctx, tx, rule.ID); err != nil {
			return nil, err
		}
		metrics.RuleApplications.WithLabelValues(rule.RuleType).Inc()
	}

	// 7. Consume the loyalty credit if one was applied.
	if breakdown.LoyaltyDiscountApplied {
		if err := s.userRepo.UpdateLoyalty(ctx, tx, user.ID,
			user.LoyaltySlotsEarned, user.LoyaltyDiscountsAvailable-1, user.LoyaltyYearReset); err != nil {
			return nil, err
		}
	}

	// 8. Reserve the slots.
	if err := s.campaignRepo.AdjustBookedSlots(ctx, tx, campaign.ID, quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	log.Info().
		Int64("booking_id", booking.ID).
		Int64("campaign_id", campaign.ID).
		Int64("route_id", booking.RouteID).
		Int("quantity", quantity).
		Int64("amount_cents", booking.AmountCents).
		Msg("booking created")

	return &model.BookingResponse{Booking: booking, Price: &breakdown}, nil
}

// GetByID retrieves a booking.
// Returns ErrBookingNotFound if the booking doesn't exist.
func (s *BookingService) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// ListByUser returns a user's bookings.
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

// refundFor computes the refund tier for a cancellation: full before the
// print deadline, partial after the deadline but before the mail date,
// none once mailed.
func refundFor(campaign *model.Campaign, at time.Time) string {
	switch {
	case at.Before(campaign.PrintDeadline):
		return model.RefundStatusFull
	case at.Before(campaign.MailDate):
		return model.RefundStatusPartial
	default:
		return model.RefundStatusNone
	}
}

// Cancel cancels a booking and releases its slots. The release is
// idempotent: the cancelled-status guard in the repository means a
// second cancel decrements nothing. Matching waitlist entries are
// notified after commit, best effort.
func (s *BookingService) Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	booking, err := s.release(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	// The freed slots are already visible to new reservations; the
	// notifier run must not fail the cancellation.
	if s.onFreed != nil {
		s.onFreed.OnCapacityFreed(ctx, booking.CampaignID, booking.RouteID, booking.IndustryID)
	}
	return booking, nil
}

// release performs the transactional part of a cancellation.
func (s *BookingService) release(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	campaign, err := s.campaignRepo.GetForUpdate(ctx, tx, booking.CampaignID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	refund := refundFor(campaign, now)
	released, err := s.bookingRepo.MarkCancelled(ctx, tx, id, reason, refund, now)
	if err != nil {
		return nil, err
	}
	if released {
		// Guard against double-release: only the transition that actually
		// flipped the status gives the slots back.
		if err := s.campaignRepo.AdjustBookedSlots(ctx, tx, campaign.ID, -booking.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancellation: %w", err)
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = &reason
	booking.RefundStatus = refund

	log.Info().
		Int64("booking_id", id).
		Int("quantity", booking.Quantity).
		Str("refund", refund).
		Msg("booking cancelled, slots released")
	return booking, nil
}

// Review applies an admin approval decision. Rejection requires a note
// and releases the booking's slot reservation.
func (s *BookingService) Review(ctx context.Context, id int64, decision string, note *string) (*model.Booking, error) {
	if decision == model.ApprovalStatusRejected && (note == nil || *note == "") {
		return nil, fmt.Errorf("%w: rejection needs a note", ErrNoteRequired)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateApprovalTransition(booking.ApprovalStatus, decision); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SetApproval(ctx, tx, id, decision, note); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approval: %w", err)
	}
	booking.ApprovalStatus = decision
	booking.RejectionNote = note

	if decision == model.ApprovalStatusRejected {
		// A rejected booking gives its slots back and lands on the refund
		// policy like any other cancellation.
		cancelled, err := s.Cancel(ctx, id, "booking rejected: "+*note)
		if err != nil && !errors.Is(err, ErrAlreadyCancelled) {
			return nil, err
		}
		if cancelled != nil {
			cancelled.ApprovalStatus = decision
			return cancelled, nil
		}
	}
	return booking, nil
}

// RecordPayment applies a payment gateway callback. A successful capture
// adds to campaign revenue, accrues loyalty and credits a pending
// referral.
func (s *BookingService) RecordPayment(ctx context.Context, id int64, req *model.PaymentCallbackRequest) (*model.Booking, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := ValidatePaymentTransition(booking.PaymentStatus, req.Status); err != nil {
		return nil, err
	}

	var paidAt *time.Time
	var amountPaid int64
	if req.Status == model.PaymentStatusPaid {
		now := time.Now().UTC()
		paidAt = &now
		amountPaid = booking.AmountCents
		if req.AmountPaidCents != nil {
			amountPaid = *req.AmountPaidCents
		}
	}
	if err := s.bookingRepo.SetPayment(ctx, tx, id, req.Status, amountPaid, paidAt); err != nil {
		return nil, err
	}

	if req.Status == model.PaymentStatusPaid {
		if err := s.campaignRepo.AddRevenue(ctx, tx, booking.CampaignID, amountPaid); err != nil {
			return nil, err
		}
		if err := s.settleUserCredits(ctx, tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	booking.PaymentStatus = req.Status
	booking.AmountPaidCents = amountPaid
	booking.PaidAt = paidAt
	log.Info().Int64("booking_id", id).Str("status", req.Status).Int64("amount_cents", amountPaid).Msg("payment recorded")
	return booking, nil
}

// settleUserCredits accrues loyalty slots for a paid booking and credits
// a pending referral. Runs inside the payment transaction.
func (s *BookingService) settleUserCredits(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	user, err := s.userRepo.GetForUpdate(ctx, tx, booking.UserID)
	if err != nil {
		return err
	}

	year := time.Now().UTC().Year()
	earned := user.LoyaltySlotsEarned
	credits := user.LoyaltyDiscountsAvailable
	if user.LoyaltyYearReset < year {
		earned = 0
	}

	// Every threshold crossing grants one discount credit.
	newEarned := earned + booking.Quantity
	credits += newEarned/s.loyaltyThreshold - earned/s.loyaltyThreshold
	if err := s.userRepo.UpdateLoyalty(ctx, tx, user.ID, newEarned, credits, year); err != nil {
		return err
	}

	if user.ReferredBy != nil && user.ReferralStatus == model.ReferralStatusPending {
		if err := s.userRepo.SetReferralStatus(ctx, tx, user.ID, model.ReferralStatusCredited); err != nil {
			return err
		}
		log.Info().Int64("user_id", user.ID).Int64("referrer_id", *user.ReferredBy).Msg("referral credited")
	}
	return nil
}

// SubmitArtwork records a customer upload and moves the artwork axis to
// under_review. Resubmitting after a rejection clears the rejection
// reason.
func (s *BookingService) SubmitArtwork(ctx context.Context, id int64, fileName string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := ValidateArtworkTransition(booking.ArtworkStatus, model.ArtworkStatusUnderReview); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SetArtwork(ctx, id, model.ArtworkStatusUnderReview, &fileName, nil); err != nil {
		return nil, err
	}
	booking.ArtworkStatus = model.ArtworkStatusUnderReview
	booking.ArtworkFile = &fileName
	booking.ArtworkRejectionReason = nil
	return booking, nil
}

// ReviewArtwork applies an admin artwork decision. Rejection requires a
// reason and sends the artwork back to the customer for re-upload.
func (s *BookingService) ReviewArtwork(ctx context.Context, id int64, decision string, reason *string) (*model.Booking, error) {
	if decision == model.ArtworkStatusRejected && (reason == nil || *reason == "") {
		return nil, fmt.Errorf("%w: artwork rejection needs a reason", ErrNoteRequired)
	}
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateArtworkTransition(booking.ArtworkStatus, decision); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SetArtwork(ctx, id, decision, nil, reason); err != nil {
		return nil, err
	}
	booking.ArtworkStatus = decision
	booking.ArtworkRejectionReason = reason
	return booking, nil
}

// SubmitDesign stores a new design revision and moves the design axis to
// pending_review. Allowed from pending_design and after a
// changes_requested decision.
func (s *BookingService) SubmitDesign(ctx context.Context, id int64, fileName string) (*model.DesignRevision, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := ValidateDesignTransition(booking.DesignStatus, model.DesignStatusPendingReview, booking.RevisionCount); err != nil {
		return nil, err
	}

	rev := &model.DesignRevision{
		BookingID: id,
		FileName:  fileName,
		Status:    model.RevisionStatusPendingReview,
	}
	if err := s.designRepo.Insert(ctx, tx, rev); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SetDesign(ctx, tx, id, model.DesignStatusPendingReview, booking.RevisionCount); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit design submission: %w", err)
	}
	return rev, nil
}

// ReviewDesign applies the customer's design sign-off. Approval needs a
// paid booking. A changes_requested decision consumes one of the bounded
// revisions; past the cap it fails with ErrRevisionLimitExceeded.
func (s *BookingService) ReviewDesign(ctx context.Context, id int64, decision string, feedback *string) (*model.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := s.bookingRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if decision == model.DesignStatusApproved && booking.PaymentStatus != model.PaymentStatusPaid {
		return nil, ErrPaymentRequired
	}
	if err := ValidateDesignTransition(booking.DesignStatus, decision, booking.RevisionCount); err != nil {
		return nil, err
	}

	revisionCount := booking.RevisionCount
	if decision == model.DesignStatusChangesRequested {
		revisionCount++
	}
	if err := s.bookingRepo.SetDesign(ctx, tx, id, decision, revisionCount); err != nil {
		return nil, err
	}

	// Mirror the decision onto the revision under review.
	if rev, err := s.designRepo.LatestByBooking(ctx, id); err != nil {
		return nil, err
	} else if rev != nil {
		revStatus := model.RevisionStatusApproved
		if decision == model.DesignStatusChangesRequested {
			revStatus = model.RevisionStatusChangesRequested
		}
		if err := s.designRepo.SetStatus(ctx, tx, rev.ID, revStatus, feedback); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit design review: %w", err)
	}
	booking.DesignStatus = decision
	booking.RevisionCount = revisionCount
	return booking, nil
}
