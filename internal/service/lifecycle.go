package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// Transition tables for the campaign workflow and the four booking axes.
// Every status write goes through one of the Validate helpers below; a
// state with no entry is terminal.

// campaignTransitions is forward-only: each status may only advance to
// the next stage of the mailing cycle.
var campaignTransitions = map[string][]string{
	model.CampaignStatusPlanning:      {model.CampaignStatusBookingOpen},
	model.CampaignStatusBookingOpen:   {model.CampaignStatusBookingClosed},
	model.CampaignStatusBookingClosed: {model.CampaignStatusPrinted},
	model.CampaignStatusPrinted:       {model.CampaignStatusMailed},
	model.CampaignStatusMailed:        {model.CampaignStatusCompleted},
}

var approvalTransitions = map[string][]string{
	model.ApprovalStatusPending: {model.ApprovalStatusApproved, model.ApprovalStatusRejected},
}

var paymentTransitions = map[string][]string{
	model.PaymentStatusPending: {model.PaymentStatusPaid, model.PaymentStatusFailed},
	// A failed capture may be retried by the gateway.
	model.PaymentStatusFailed: {model.PaymentStatusPaid, model.PaymentStatusFailed},
}

var artworkTransitions = map[string][]string{
	model.ArtworkStatusPendingUpload: {model.ArtworkStatusUnderReview},
	model.ArtworkStatusUnderReview:   {model.ArtworkStatusApproved, model.ArtworkStatusRejected},
	// Rejected artwork returns to pending_upload when the customer resubmits.
	model.ArtworkStatusRejected: {model.ArtworkStatusUnderReview},
}

var designTransitions = map[string][]string{
	model.DesignStatusPendingDesign:    {model.DesignStatusPendingReview},
	model.DesignStatusPendingReview:    {model.DesignStatusApproved, model.DesignStatusChangesRequested},
	model.DesignStatusChangesRequested: {model.DesignStatusPendingReview},
}

// allowed reports whether target appears in the table entry for current.
func allowed(table map[string][]string, current, target string) bool {
	for _, next := range table[current] {
		if next == target {
			return true
		}
	}
	return false
}

// transitionError builds an ErrInvalidTransition naming the allowed next
// states so the caller can surface an actionable message.
func transitionError(axis string, table map[string][]string, current, target string) error {
	next := table[current]
	if len(next) == 0 {
		return fmt.Errorf("%w: %s %q is terminal", ErrInvalidTransition, axis, current)
	}
	sorted := append([]string(nil), next...)
	sort.Strings(sorted)
	return fmt.Errorf("%w: %s cannot move from %q to %q (allowed: %s)",
		ErrInvalidTransition, axis, current, target, strings.Join(sorted, ", "))
}

// ValidateCampaignTransition checks a campaign status change against the
// forward-only workflow table.
func ValidateCampaignTransition(current, target string) error {
	if !allowed(campaignTransitions, current, target) {
		return transitionError("campaign status", campaignTransitions, current, target)
	}
	return nil
}

// ValidateApprovalTransition checks the approval axis. Approved and
// rejected are terminal.
func ValidateApprovalTransition(current, target string) error {
	if !allowed(approvalTransitions, current, target) {
		return transitionError("approval status", approvalTransitions, current, target)
	}
	return nil
}

// ValidatePaymentTransition checks the payment axis.
func ValidatePaymentTransition(current, target string) error {
	if !allowed(paymentTransitions, current, target) {
		return transitionError("payment status", paymentTransitions, current, target)
	}
	return nil
}

// ValidateArtworkTransition checks the artwork axis.
func ValidateArtworkTransition(current, target string) error {
	if !allowed(artworkTransitions, current, target) {
		return transitionError("artwork status", artworkTransitions, current, target)
	}
	return nil
}

// ValidateDesignTransition checks the design axis and enforces the
// revision cap: once revisionCount reaches the maximum, a further
// changes_requested transition is refused with ErrRevisionLimitExceeded.
func ValidateDesignTransition(current, target string, revisionCount int) error {
	if target == model.DesignStatusChangesRequested && revisionCount >= model.MaxDesignRevisions {
		return fmt.Errorf("%w: %d revisions already used", ErrRevisionLimitExceeded, revisionCount)
	}
	if !allowed(designTransitions, current, target) {
		return transitionError("design status", designTransitions, current, target)
	}
	return nil
}
