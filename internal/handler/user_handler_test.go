package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
	appvalidator "github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/validator"
)

// mockUserService is a mock implementation of UserServiceInterface.
type mockUserService struct {
	registerFn      func(ctx context.Context, email, name string, referralCode *string) (*model.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	bookingsFn      func(ctx context.Context, userID int64) ([]*model.Booking, error)
	notificationsFn func(ctx context.Context, userID int64) ([]*model.Notification, error)
}

func (m *mockUserService) Register(ctx context.Context, email, name string, referralCode *string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, name, referralCode)
	}
	return &model.User{ID: 1, Email: email, Name: name, ReferralCode: "ref-code"}, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserService) Bookings(ctx context.Context, userID int64) ([]*model.Booking, error) {
	if m.bookingsFn != nil {
		return m.bookingsFn(ctx, userID)
	}
	return []*model.Booking{}, nil
}

func (m *mockUserService) Notifications(ctx context.Context, userID int64) ([]*model.Notification, error) {
	if m.notificationsFn != nil {
		return m.notificationsFn(ctx, userID)
	}
	return []*model.Notification{}, nil
}

func setupUserApp(mockSvc *mockUserService) *fiber.App {
	app := fiber.New()
	h := NewUserHandler(mockSvc, appvalidator.New())
	app.Post("/api/users", h.RegisterUser)
	app.Get("/api/users/:id", h.GetUser)
	app.Get("/api/users/:id/bookings", h.ListUserBookings)
	app.Get("/api/users/:id/notifications", h.ListUserNotifications)
	return app
}

func TestRegisterUser_Success(t *testing.T) {
	app := setupUserApp(&mockUserService{})

	body := `{"email": "new@example.com", "name": "Best Plumbing LLC"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/users", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user model.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEmpty(t, user.ReferralCode)
}

func TestRegisterUser_BadEmail(t *testing.T) {
	app := setupUserApp(&mockUserService{})

	body := `{"email": "not-an-email", "name": "Best Plumbing LLC"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/users", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterUser_UnknownReferralCode(t *testing.T) {
	mockSvc := &mockUserService{
		registerFn: func(ctx context.Context, email, name string, referralCode *string) (*model.User, error) {
			return nil, service.ErrInvalidRequest
		},
	}
	app := setupUserApp(mockSvc)

	body := `{"email": "new@example.com", "name": "Best Plumbing LLC", "referral_code": "no-such-code"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/users", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetUser_NotFound(t *testing.T) {
	mockSvc := &mockUserService{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, service.ErrUserNotFound
		},
	}
	app := setupUserApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/99", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListUserBookings_Success(t *testing.T) {
	mockSvc := &mockUserService{
		bookingsFn: func(ctx context.Context, userID int64) ([]*model.Booking, error) {
			return []*model.Booking{{ID: 10, UserID: userID}}, nil
		},
	}
	app := setupUserApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/42/bookings", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var bookings []model.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(42), bookings[0].UserID)
}

func TestListUserNotifications_BadID(t *testing.T) {
	app := setupUserApp(&mockUserService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/0/notifications", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
