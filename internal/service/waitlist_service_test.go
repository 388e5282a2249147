package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/notifier"
)

// mockWaitlistRepository is a mock implementation of WaitlistRepositoryInterface.
type mockWaitlistRepository struct {
	activeMatchingFn func(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error)
	getByIDsFn       func(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error)
	markNotifiedFn   func(ctx context.Context, id int64, channels string, at time.Time) error
	markConvertedFn  func(ctx context.Context, id int64) error
}

func (m *mockWaitlistRepository) ActiveMatching(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error) {
	if m.activeMatchingFn != nil {
		return m.activeMatchingFn(ctx, campaignID, routeID, industryID)
	}
	return []*model.WaitlistEntry{}, nil
}

func (m *mockWaitlistRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return []*model.WaitlistEntry{}, nil
}

func (m *mockWaitlistRepository) MarkNotified(ctx context.Context, id int64, channels string, at time.Time) error {
	if m.markNotifiedFn != nil {
		return m.markNotifiedFn(ctx, id, channels, at)
	}
	return nil
}

func (m *mockWaitlistRepository) MarkConverted(ctx context.Context, id int64) error {
	if m.markConvertedFn != nil {
		return m.markConvertedFn(ctx, id)
	}
	return nil
}

// mockNotificationStore is a mock implementation of NotificationStoreInterface.
type mockNotificationStore struct {
	insertFn func(ctx context.Context, n *model.Notification) error
}

func (m *mockNotificationStore) Insert(ctx context.Context, n *model.Notification) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, n)
	}
	return nil
}

// mockPublisher records published events.
type mockPublisher struct {
	slotEvents   []notifier.SlotAvailableEvent
	noticeEvents []notifier.WaitlistNoticeEvent
	slotErr      error
}

func (m *mockPublisher) PublishSlotAvailable(ctx context.Context, event notifier.SlotAvailableEvent) error {
	if m.slotErr != nil {
		return m.slotErr
	}
	m.slotEvents = append(m.slotEvents, event)
	return nil
}

func (m *mockPublisher) PublishWaitlistNotice(ctx context.Context, event notifier.WaitlistNoticeEvent) error {
	m.noticeEvents = append(m.noticeEvents, event)
	return nil
}

func activeEntry(id, userID int64) *model.WaitlistEntry {
	return &model.WaitlistEntry{
		ID:         id,
		UserID:     userID,
		CampaignID: 7,
		RouteID:    5,
		IndustryID: 3,
		Quantity:   1,
		Status:     model.WaitlistStatusActive,
	}
}

func TestWaitlistService_OnCapacityFreed_NotifiesMatchingEntries(t *testing.T) {
	notified := []int64{}
	repo := &mockWaitlistRepository{
		activeMatchingFn: func(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{activeEntry(1, 10), activeEntry(2, 11)}, nil
		},
		markNotifiedFn: func(ctx context.Context, id int64, channels string, at time.Time) error {
			notified = append(notified, id)
			return nil
		},
	}
	stored := 0
	notes := &mockNotificationStore{
		insertFn: func(ctx context.Context, n *model.Notification) error {
			stored++
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := NewWaitlistService(repo, notes, pub)
	svc.OnCapacityFreed(context.Background(), 7, 5, 3)

	assert.Equal(t, []int64{1, 2}, notified, "entries are notified in FIFO order")
	assert.Len(t, pub.slotEvents, 2)
	assert.Equal(t, 2, stored, "each entry gets an in-app row")
}

func TestWaitlistService_OnCapacityFreed_PublishFailureStillMarksNotified(t *testing.T) {
	notified := 0
	repo := &mockWaitlistRepository{
		activeMatchingFn: func(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{activeEntry(1, 10)}, nil
		},
		markNotifiedFn: func(ctx context.Context, id int64, channels string, at time.Time) error {
			notified++
			return nil
		},
	}
	pub := &mockPublisher{slotErr: errors.New("broker unreachable")}

	svc := NewWaitlistService(repo, &mockNotificationStore{}, pub)
	svc.OnCapacityFreed(context.Background(), 7, 5, 3)

	assert.Equal(t, 1, notified, "broker failure must not block the in-app path")
}

func TestWaitlistService_Notify_RequiresChannel(t *testing.T) {
	svc := NewWaitlistService(&mockWaitlistRepository{}, &mockNotificationStore{}, &mockPublisher{})

	_, err := svc.Notify(context.Background(), &model.NotifyWaitlistRequest{
		EntryIDs: []int64{1},
		Message:  "slots open",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestWaitlistService_Notify_SkipsConvertedEntries(t *testing.T) {
	converted := activeEntry(2, 11)
	converted.Status = model.WaitlistStatusConverted
	repo := &mockWaitlistRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{activeEntry(1, 10), converted}, nil
		},
	}
	pub := &mockPublisher{}

	svc := NewWaitlistService(repo, &mockNotificationStore{}, pub)
	resp, err := svc.Notify(context.Background(), &model.NotifyWaitlistRequest{
		EntryIDs: []int64{1, 2},
		Message:  "slots open",
		Email:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.NotifiedCount)
	assert.Len(t, pub.noticeEvents, 1)
}

func TestWaitlistService_Notify_InAppOnlySkipsBroker(t *testing.T) {
	repo := &mockWaitlistRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{activeEntry(1, 10)}, nil
		},
	}
	stored := 0
	notes := &mockNotificationStore{
		insertFn: func(ctx context.Context, n *model.Notification) error {
			stored++
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := NewWaitlistService(repo, notes, pub)
	resp, err := svc.Notify(context.Background(), &model.NotifyWaitlistRequest{
		EntryIDs: []int64{1},
		Message:  "slots open",
		InApp:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.NotifiedCount)
	assert.Equal(t, 1, stored)
	assert.Empty(t, pub.noticeEvents)
}

func TestWaitlistService_Convert_UnknownEntry(t *testing.T) {
	repo := &mockWaitlistRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{}, nil
		},
	}

	svc := NewWaitlistService(repo, &mockNotificationStore{}, &mockPublisher{})
	err := svc.Convert(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWaitlistEntryNotFound))
}

func TestWaitlistService_Convert_Success(t *testing.T) {
	convertedID := int64(0)
	repo := &mockWaitlistRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
			return []*model.WaitlistEntry{activeEntry(4, 10)}, nil
		},
		markConvertedFn: func(ctx context.Context, id int64) error {
			convertedID = id
			return nil
		},
	}

	svc := NewWaitlistService(repo, &mockNotificationStore{}, &mockPublisher{})
	err := svc.Convert(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(4), convertedID)
}
