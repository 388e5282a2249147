package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCampaignNotFound is returned when a campaign cannot be found
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrRouteNotFound is returned when a route cannot be found
	ErrRouteNotFound = errors.New("route not found")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrBookingNotFound is returned when a booking cannot be found
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRuleNotFound is returned when a pricing rule cannot be found
	ErrRuleNotFound = errors.New("pricing rule not found")

	// ErrWaitlistEntryNotFound is returned when a waitlist entry cannot be found
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")

	// ErrBookingClosed is returned when the campaign is not accepting bookings
	ErrBookingClosed = errors.New("campaign is not open for booking")

	// ErrRuleExhausted is returned when the selected pricing rule's usage
	// limit was hit between selection and commit; resolution may be retried
	ErrRuleExhausted = errors.New("pricing rule usage limit reached")

	// ErrRuleConflict is returned when pricing resolution keeps losing the
	// race after the internal retry budget is spent
	ErrRuleConflict = errors.New("pricing rule conflict, try again")

	// ErrInvalidTransition is returned when a lifecycle or campaign status
	// transition is not permitted from the current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRevisionLimitExceeded is returned when a design change is requested
	// beyond the revision cap
	ErrRevisionLimitExceeded = errors.New("design revision limit exceeded")

	// ErrNoteRequired is returned when a rejection or override is missing
	// its mandatory note
	ErrNoteRequired = errors.New("a note is required for this action")

	// ErrAlreadyCancelled is returned when acting on a cancelled booking
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrPaymentRequired is returned when a design action needs a paid booking
	ErrPaymentRequired = errors.New("booking must be paid first")
)
