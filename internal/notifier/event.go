// Package notifier publishes waitlist events to the message broker and
// stores the in-app copy. Email delivery is a downstream consumer of the
// broker and is out of scope here.
package notifier

// SlotAvailableEvent is published when released capacity matches a
// waitlist entry. It carries enough for downstream consumers to build a
// notification without querying the primary database.
type SlotAvailableEvent struct {
	EntryID    int64  `json:"entry_id"`
	UserID     int64  `json:"user_id"`
	CampaignID int64  `json:"campaign_id"`
	RouteID    int64  `json:"route_id"`
	IndustryID int64  `json:"industry_id"`
	Quantity   int    `json:"quantity"`
	FreedAt    string `json:"freed_at"`
}

// WaitlistNoticeEvent is published for an admin-triggered bulk notify.
type WaitlistNoticeEvent struct {
	EntryID  int64    `json:"entry_id"`
	UserID   int64    `json:"user_id"`
	Message  string   `json:"message"`
	Channels []string `json:"channels"`
	SentAt   string   `json:"sent_at"`
}
