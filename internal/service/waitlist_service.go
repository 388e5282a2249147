package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/metrics"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/notifier"
)

// WaitlistRepositoryInterface defines the waitlist data access.
type WaitlistRepositoryInterface interface {
	ActiveMatching(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error)
	MarkNotified(ctx context.Context, id int64, channels string, at time.Time) error
	MarkConverted(ctx context.Context, id int64) error
}

// NotificationStoreInterface stores the in-app copy of a notification.
type NotificationStoreInterface interface {
	Insert(ctx context.Context, n *model.Notification) error
}

// WaitlistService notifies waiting customers when capacity frees up and
// handles the admin bulk notify. Notification is channel-agnostic: an
// AMQP event for the email worker plus an in-app notification row.
type WaitlistService struct {
	repo      WaitlistRepositoryInterface
	notes     NotificationStoreInterface
	publisher notifier.Publisher
}

// NewWaitlistService creates a WaitlistService.
func NewWaitlistService(repo WaitlistRepositoryInterface, notes NotificationStoreInterface, publisher notifier.Publisher) *WaitlistService {
	return &WaitlistService{repo: repo, notes: notes, publisher: publisher}
}

// OnCapacityFreed notifies active entries matching the freed (campaign,
// route, industry) tuple, FIFO. It is best effort: failures are logged,
// never propagated, so a cancellation can't be failed by its
// notifications. Entries are marked notified, not converted; booking the
// freed slot remains the customer's move.
func (s *WaitlistService) OnCapacityFreed(ctx context.Context, campaignID, routeID, industryID int64) {
	entries, err := s.repo.ActiveMatching(ctx, campaignID, routeID, industryID)
	if err != nil {
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("waitlist lookup failed")
		return
	}
	if len(entries) == 0 {
		return
	}

	now := time.Now().UTC()
	for _, entry := range entries {
		event := notifier.SlotAvailableEvent{
			EntryID:    entry.ID,
			UserID:     entry.UserID,
			CampaignID: entry.CampaignID,
			RouteID:    entry.RouteID,
			IndustryID: entry.IndustryID,
			Quantity:   entry.Quantity,
			FreedAt:    now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishSlotAvailable(ctx, event); err != nil {
			log.Error().Err(err).Int64("entry_id", entry.ID).Msg("slot-available publish failed")
		}
		if err := s.storeInApp(ctx, entry.UserID, model.NotificationWaitlistSlot,
			"A slot opened up", "Capacity you waited for is available again. Book now to claim it."); err != nil {
			log.Error().Err(err).Int64("entry_id", entry.ID).Msg("in-app notification failed")
		}
		if err := s.repo.MarkNotified(ctx, entry.ID, model.ChannelEmail+","+model.ChannelInApp, now); err != nil {
			log.Error().Err(err).Int64("entry_id", entry.ID).Msg("mark notified failed")
			continue
		}
		metrics.WaitlistNotifications.WithLabelValues(model.ChannelEmail).Inc()
		metrics.WaitlistNotifications.WithLabelValues(model.ChannelInApp).Inc()
	}
	log.Info().
		Int64("campaign_id", campaignID).
		Int64("route_id", routeID).
		Int("entries", len(entries)).
		Msg("waitlist notified of freed capacity")
}

// Notify performs the admin bulk notify: each named entry is marked
// notified with the channels used and the message is dispatched. Returns
// the number of entries notified. Entries that are missing or already
// converted are skipped, not errors.
func (s *WaitlistService) Notify(ctx context.Context, req *model.NotifyWaitlistRequest) (*model.NotifyWaitlistResponse, error) {
	if req == nil || len(req.EntryIDs) == 0 {
		return nil, ErrInvalidRequest
	}
	if !req.Email && !req.InApp {
		return nil, fmt.Errorf("%w: at least one channel required", ErrInvalidRequest)
	}

	entries, err := s.repo.GetByIDs(ctx, req.EntryIDs)
	if err != nil {
		return nil, fmt.Errorf("load waitlist entries: %w", err)
	}

	var channels []string
	if req.Email {
		channels = append(channels, model.ChannelEmail)
	}
	if req.InApp {
		channels = append(channels, model.ChannelInApp)
	}
	channelList := strings.Join(channels, ",")

	now := time.Now().UTC()
	notified := 0
	for _, entry := range entries {
		if entry.Status == model.WaitlistStatusConverted {
			continue
		}
		if req.Email {
			event := notifier.WaitlistNoticeEvent{
				EntryID:  entry.ID,
				UserID:   entry.UserID,
				Message:  req.Message,
				Channels: channels,
				SentAt:   now.Format(time.RFC3339),
			}
			if err := s.publisher.PublishWaitlistNotice(ctx, event); err != nil {
				log.Error().Err(err).Int64("entry_id", entry.ID).Msg("waitlist notice publish failed")
			}
			metrics.WaitlistNotifications.WithLabelValues(model.ChannelEmail).Inc()
		}
		if req.InApp {
			if err := s.storeInApp(ctx, entry.UserID, model.NotificationWaitlistNotice,
				"Waitlist update", req.Message); err != nil {
				log.Error().Err(err).Int64("entry_id", entry.ID).Msg("in-app notification failed")
			}
			metrics.WaitlistNotifications.WithLabelValues(model.ChannelInApp).Inc()
		}
		if err := s.repo.MarkNotified(ctx, entry.ID, channelList, now); err != nil {
			return nil, fmt.Errorf("mark entry %d notified: %w", entry.ID, err)
		}
		notified++
	}

	return &model.NotifyWaitlistResponse{NotifiedCount: notified}, nil
}

// Convert records that a customer turned their waitlist entry into a
// booking. The booking itself goes through the normal reservation path.
func (s *WaitlistService) Convert(ctx context.Context, entryID int64) error {
	entries, err := s.repo.GetByIDs(ctx, []int64{entryID})
	if err != nil {
		return fmt.Errorf("load waitlist entry: %w", err)
	}
	if len(entries) == 0 {
		return ErrWaitlistEntryNotFound
	}
	return s.repo.MarkConverted(ctx, entryID)
}

func (s *WaitlistService) storeInApp(ctx context.Context, userID int64, kind, subject, body string) error {
	return s.notes.Insert(ctx, &model.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Subject: subject,
		Body:    body,
	})
}
