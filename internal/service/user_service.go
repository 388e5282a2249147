package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// UserStoreInterface defines the user data access for registration.
type UserStoreInterface interface {
	Insert(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByReferralCode(ctx context.Context, code string) (*model.User, error)
}

// UserBookingLister lists a user's bookings.
type UserBookingLister interface {
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
}

// UserNotificationLister lists a user's unread in-app notifications.
type UserNotificationLister interface {
	ListUnread(ctx context.Context, userID int64) ([]*model.Notification, error)
}

// UserService registers customers and resolves referral codes. Sessions
// and credentials live in the identity layer outside this service.
type UserService struct {
	repo     UserStoreInterface
	bookings UserBookingLister
	notes    UserNotificationLister
}

// NewUserService creates a UserService with the given repositories.
func NewUserService(repo UserStoreInterface, bookings UserBookingLister, notes UserNotificationLister) *UserService {
	return &UserService{repo: repo, bookings: bookings, notes: notes}
}

// Register creates a customer account with a fresh referral code. When a
// referrer's code is supplied the referral starts out pending and is
// credited once the new customer pays for a booking.
func (s *UserService) Register(ctx context.Context, email, name string, referralCode *string) (*model.User, error) {
	user := &model.User{
		Email:          email,
		Name:           name,
		Role:           model.RoleCustomer,
		ReferralCode:   uuid.NewString(),
		ReferralStatus: model.ReferralStatusNone,
	}

	if referralCode != nil && *referralCode != "" {
		referrer, err := s.repo.GetByReferralCode(ctx, *referralCode)
		if err != nil {
			return nil, fmt.Errorf("resolve referral code: %w", err)
		}
		if referrer == nil {
			return nil, fmt.Errorf("%w: unknown referral code", ErrInvalidRequest)
		}
		user.ReferredBy = &referrer.ID
		user.ReferralStatus = model.ReferralStatusPending
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user.
// Returns ErrUserNotFound if the user doesn't exist.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Bookings lists a user's bookings, newest first.
func (s *UserService) Bookings(ctx context.Context, userID int64) ([]*model.Booking, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.ListByUser(ctx, userID)
}

// Notifications lists a user's unread in-app notifications.
func (s *UserService) Notifications(ctx context.Context, userID int64) ([]*model.Notification, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.notes.ListUnread(ctx, userID)
}
