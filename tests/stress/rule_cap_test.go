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

// TestRuleCapUnderLoad hammers a capped pricing rule with more concurrent
// bookings than the cap allows.
//
// Given a campaign-wide discount rule with usage_limit=5 and 20 concurrent
// single-slot bookings:
//   - all 20 bookings confirm (losing the rule never fails the booking)
//   - exactly 5 bookings carry the discounted amount
//   - usage_count lands at exactly 5, never above
//   - exactly 5 audit rows exist in pricing_rule_applications
func TestRuleCapUnderLoad(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	routeID := seedRoute(t, "30930")
	industryID := seedIndustry(t, "Dental")
	campaignID := seedOpenCampaign(t, 300)

	const usageLimit = 5
	var ruleID int64
	err := testPool.QueryRow(ctx,
		`INSERT INTO pricing_rules (name, campaign_id, rule_type, value, priority, usage_limit)
		 VALUES ('First five', $1, 'discount_amount', 5000, 10, $2) RETURNING id`,
		campaignID, usageLimit).Scan(&ruleID)
	require.NoError(t, err)

	const concurrentRequests = 20
	svc := newBookingService()

	// One route holds 16 slots, so spread bookings over two routes to let
	// all 20 confirm.
	secondRoute := seedRoute(t, "30931")
	routeFor := func(i int) int64 {
		if i%2 == 0 {
			return routeID
		}
		return secondRoute
	}

	var wg sync.WaitGroup
	errs := make(chan error, concurrentRequests)

	for i := 0; i < concurrentRequests; i++ {
		uid := seedUser(t, fmt.Sprintf("cap%d@example.com", i))
		wg.Add(1)
		go func(uid, rid int64) {
			defer wg.Done()
			resp, err := svc.Create(ctx, &model.CreateBookingRequest{
				UserID:     uid,
				CampaignID: campaignID,
				RouteID:    rid,
				IndustryID: industryID,
				Quantity:   quantity(1),
			})
			if err == nil && resp.Waitlisted {
				err = fmt.Errorf("unexpectedly waitlisted")
			}
			errs <- err
		}(uid, routeFor(i))
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err, "Every booking should confirm even after the rule is exhausted")
	}

	var usageCount int
	err = testPool.QueryRow(ctx,
		"SELECT usage_count FROM pricing_rules WHERE id = $1", ruleID).Scan(&usageCount)
	require.NoError(t, err)
	assert.Equal(t, usageLimit, usageCount, "usage_count must land exactly at the cap")

	var applications int
	err = testPool.QueryRow(ctx,
		"SELECT COUNT(*) FROM pricing_rule_applications WHERE rule_id = $1", ruleID).Scan(&applications)
	require.NoError(t, err)
	assert.Equal(t, usageLimit, applications, "Exactly one audit row per consumed use")

	var discounted, fullPrice int
	err = testPool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE amount_cents = 34900),
		        COUNT(*) FILTER (WHERE amount_cents = 39900)
		 FROM bookings WHERE campaign_id = $1`, campaignID).Scan(&discounted, &fullPrice)
	require.NoError(t, err)
	assert.Equal(t, usageLimit, discounted, "Exactly %d bookings should be discounted", usageLimit)
	assert.Equal(t, concurrentRequests-usageLimit, fullPrice)
}

// TestRuleCapRepeatable runs the capped-rule scenario several times in a
// row to shake out flakiness in the lock-retry path.
func TestRuleCapRepeatable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repeated stress run in short mode")
	}

	for run := 0; run < 3; run++ {
		run := run
		t.Run(fmt.Sprintf("run_%d", run), func(t *testing.T) {
			cleanupTables(t)

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			routeID := seedRoute(t, "30940")
			industryID := seedIndustry(t, "HVAC")
			campaignID := seedOpenCampaign(t, 300)

			var ruleID int64
			err := testPool.QueryRow(ctx,
				`INSERT INTO pricing_rules (name, campaign_id, rule_type, value, priority, usage_limit)
				 VALUES ('Single use', $1, 'discount_percent', 25, 10, 1) RETURNING id`,
				campaignID).Scan(&ruleID)
			require.NoError(t, err)

			svc := newBookingService()

			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				uid := seedUser(t, fmt.Sprintf("repeat%d_%d@example.com", run, i))
				wg.Add(1)
				go func(uid int64) {
					defer wg.Done()
					_, err := svc.Create(ctx, &model.CreateBookingRequest{
						UserID:     uid,
						CampaignID: campaignID,
						RouteID:    routeID,
						IndustryID: industryID,
						Quantity:   quantity(1),
					})
					errs <- err
				}(uid)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}

			var usageCount int
			err = testPool.QueryRow(ctx,
				"SELECT usage_count FROM pricing_rules WHERE id = $1", ruleID).Scan(&usageCount)
			require.NoError(t, err)
			assert.Equal(t, 1, usageCount)
		})
	}
}
