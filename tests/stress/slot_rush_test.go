package stress

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// TestSlotRush floods a single 16-slot carrier route with 40 concurrent
// single-slot bookings from distinct advertisers.
//
// Expected outcome:
//   - exactly 16 bookings confirmed
//   - exactly 24 requests diverted to the waitlist
//   - route occupancy is exactly 16, never more
//   - campaign booked_slots matches the confirmed total
func TestSlotRush(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	routeID := seedRoute(t, "30910")
	industryID := seedIndustry(t, "Plumbing")
	campaignID := seedOpenCampaign(t, 300)

	const concurrentRequests = 40
	userIDs := make([]int64, concurrentRequests)
	for i := range userIDs {
		userIDs[i] = seedUser(t, fmt.Sprintf("rush%d@example.com", i))
	}

	svc := newBookingService()

	var wg sync.WaitGroup
	type outcome struct {
		waitlisted bool
		err        error
	}
	results := make(chan outcome, concurrentRequests)

	for _, uid := range userIDs {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			resp, err := svc.Create(ctx, &model.CreateBookingRequest{
				UserID:     uid,
				CampaignID: campaignID,
				RouteID:    routeID,
				IndustryID: industryID,
				Quantity:   quantity(1),
			})
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{waitlisted: resp.Waitlisted}
		}(uid)
	}

	wg.Wait()
	close(results)

	var confirmed, waitlisted, failures int
	for r := range results {
		switch {
		case r.err != nil:
			failures++
			t.Logf("Unexpected error: %v", r.err)
		case r.waitlisted:
			waitlisted++
		default:
			confirmed++
		}
	}

	assert.Equal(t, 16, confirmed, "Exactly 16 bookings should confirm")
	assert.Equal(t, 24, waitlisted, "The remaining 24 should be waitlisted")
	assert.Equal(t, 0, failures, "No request should error")

	var occupancy int
	err := testPool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings
		 WHERE campaign_id = $1 AND route_id = $2 AND status <> 'cancelled'`,
		campaignID, routeID).Scan(&occupancy)
	require.NoError(t, err)
	assert.Equal(t, 16, occupancy, "Route occupancy must never exceed 16")

	var bookedSlots int
	err = testPool.QueryRow(ctx,
		"SELECT booked_slots FROM campaigns WHERE id = $1", campaignID).Scan(&bookedSlots)
	require.NoError(t, err)
	assert.Equal(t, 16, bookedSlots)

	var entries int
	err = testPool.QueryRow(ctx,
		"SELECT COUNT(*) FROM waitlist_entries WHERE campaign_id = $1", campaignID).Scan(&entries)
	require.NoError(t, err)
	assert.Equal(t, 24, entries)
}

// TestSlotRushAcrossRoutes spreads 60 concurrent bookings over 4 routes of
// one campaign with mixed quantities and checks that per-route occupancy
// stays within bounds and campaign booked_slots equals the confirmed sum.
func TestSlotRushAcrossRoutes(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	industryID := seedIndustry(t, "Roofing")
	campaignID := seedOpenCampaign(t, 300)

	const routes = 4
	routeIDs := make([]int64, routes)
	for i := range routeIDs {
		routeIDs[i] = seedRoute(t, fmt.Sprintf("309%02d", 20+i))
	}

	const concurrentRequests = 60
	svc := newBookingService()

	var wg sync.WaitGroup
	type outcome struct {
		confirmedSlots int
		err            error
	}
	results := make(chan outcome, concurrentRequests)

	for i := 0; i < concurrentRequests; i++ {
		uid := seedUser(t, fmt.Sprintf("spread%d@example.com", i))
		qty := 1 + i%2 // alternate 1 and 2 slots
		wg.Add(1)
		go func(uid, routeID int64, qty int) {
			defer wg.Done()
			resp, err := svc.Create(ctx, &model.CreateBookingRequest{
				UserID:     uid,
				CampaignID: campaignID,
				RouteID:    routeID,
				IndustryID: industryID,
				Quantity:   quantity(qty),
			})
			if err != nil {
				results <- outcome{err: err}
				return
			}
			if resp.Waitlisted {
				results <- outcome{}
				return
			}
			results <- outcome{confirmedSlots: qty}
		}(uid, routeIDs[i%routes], qty)
	}

	wg.Wait()
	close(results)

	var confirmedSlots, failures int
	for r := range results {
		if r.err != nil {
			failures++
			t.Logf("Unexpected error: %v", r.err)
			continue
		}
		confirmedSlots += r.confirmedSlots
	}
	assert.Equal(t, 0, failures, "No request should error")

	for _, routeID := range routeIDs {
		var occupancy int
		err := testPool.QueryRow(ctx,
			`SELECT COALESCE(SUM(quantity), 0) FROM bookings
			 WHERE campaign_id = $1 AND route_id = $2 AND status <> 'cancelled'`,
			campaignID, routeID).Scan(&occupancy)
		require.NoError(t, err)
		assert.LessOrEqual(t, occupancy, 16, "Route %d occupancy exceeds capacity", routeID)
	}

	var bookedSlots int
	err := testPool.QueryRow(ctx,
		"SELECT booked_slots FROM campaigns WHERE id = $1", campaignID).Scan(&bookedSlots)
	require.NoError(t, err)
	assert.Equal(t, confirmedSlots, bookedSlots,
		"Campaign booked_slots must equal the sum of confirmed quantities")
}
