//go:build chaos

package chaos

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitDesign(t *testing.T, bookingID int64, fileName string) int {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7 proof"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest("POST",
		formatURL("/api/bookings/"+itoa(bookingID)+"/design/submit"), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

// TestDoubleCancel fires two concurrent cancellations at the same booking.
// Exactly one wins; the loser gets 409. Slots are released exactly once.
func TestDoubleCancel(t *testing.T) {
	cleanupTables(t)

	routeID := seedRoute(t, "30960")
	industryID := seedIndustry(t, "Plumbing")
	campaignID := seedOpenCampaign(t, 64)
	userID := seedUser(t, "doublecancel@example.com")
	bookingID := seedBooking(t, userID, campaignID, routeID, industryID)

	var wg sync.WaitGroup
	codes := make(chan int, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/cancel"),
				map[string]string{"reason": "changed plans"})
			if err != nil {
				codes <- -1
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}

	wg.Wait()
	close(codes)

	var ok, conflict, other int
	for code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		default:
			other++
			t.Logf("Unexpected status: %d", code)
		}
	}

	assert.Equal(t, 1, ok, "Exactly one cancellation should succeed")
	assert.Equal(t, 1, conflict, "The second cancellation should get 409")
	assert.Equal(t, 0, other)

	var bookedSlots int
	err := testPool.QueryRow(t.Context(),
		"SELECT booked_slots FROM campaigns WHERE id = $1", campaignID).Scan(&bookedSlots)
	require.NoError(t, err)
	assert.Equal(t, 0, bookedSlots, "The slot must be released exactly once, not twice")
}

// TestPaymentOnCancelledBooking confirms a cancelled booking rejects
// payment callbacks instead of resurrecting itself.
func TestPaymentOnCancelledBooking(t *testing.T) {
	cleanupTables(t)

	routeID := seedRoute(t, "30961")
	industryID := seedIndustry(t, "Roofing")
	campaignID := seedOpenCampaign(t, 64)
	userID := seedUser(t, "latepay@example.com")
	bookingID := seedBooking(t, userID, campaignID, routeID, industryID)

	resp, err := postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/cancel"),
		map[string]string{"reason": "no longer needed"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/payment"),
		map[string]interface{}{"status": "paid", "amount_paid_cents": 39900})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var paymentStatus string
	var revenue int64
	err = testPool.QueryRow(t.Context(),
		"SELECT payment_status FROM bookings WHERE id = $1", bookingID).Scan(&paymentStatus)
	require.NoError(t, err)
	assert.NotEqual(t, "paid", paymentStatus)

	err = testPool.QueryRow(t.Context(),
		"SELECT revenue_cents FROM campaigns WHERE id = $1", campaignID).Scan(&revenue)
	require.NoError(t, err)
	assert.Equal(t, int64(0), revenue, "No revenue should accrue on a cancelled booking")
}

// TestDesignRevisionCapHolds requests changes three times. The third
// request must be refused with 422 and revision_count stays at 2.
func TestDesignRevisionCapHolds(t *testing.T) {
	cleanupTables(t)

	routeID := seedRoute(t, "30962")
	industryID := seedIndustry(t, "Dental")
	campaignID := seedOpenCampaign(t, 64)
	userID := seedUser(t, "reviser@example.com")
	bookingID := seedBooking(t, userID, campaignID, routeID, industryID)

	// The sign-off path requires payment first
	_, err := testPool.Exec(t.Context(),
		"UPDATE bookings SET payment_status = 'paid', amount_paid_cents = 39900 WHERE id = $1", bookingID)
	require.NoError(t, err)

	requestChanges := func() int {
		resp, err := postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/design/review"),
			map[string]string{"decision": "changes_requested", "feedback": "make the logo bigger"})
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	require.Equal(t, http.StatusCreated, submitDesign(t, bookingID, "proof-v1.pdf"))
	assert.Equal(t, http.StatusOK, requestChanges())
	require.Equal(t, http.StatusCreated, submitDesign(t, bookingID, "proof-v2.pdf"))
	assert.Equal(t, http.StatusOK, requestChanges())
	require.Equal(t, http.StatusCreated, submitDesign(t, bookingID, "proof-v3.pdf"))
	assert.Equal(t, http.StatusUnprocessableEntity, requestChanges())

	var revisionCount int
	err = testPool.QueryRow(t.Context(),
		"SELECT revision_count FROM bookings WHERE id = $1", bookingID).Scan(&revisionCount)
	require.NoError(t, err)
	assert.Equal(t, 2, revisionCount)

	// Approval is still allowed at the cap
	resp, err := postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/design/review"),
		map[string]string{"decision": "approved"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// TestApprovalAfterRejection verifies the approval axis is terminal: once
// rejected, a booking cannot be approved and stays cancelled.
func TestApprovalAfterRejection(t *testing.T) {
	cleanupTables(t)

	routeID := seedRoute(t, "30963")
	industryID := seedIndustry(t, "HVAC")
	campaignID := seedOpenCampaign(t, 64)
	userID := seedUser(t, "flipflop@example.com")
	bookingID := seedBooking(t, userID, campaignID, routeID, industryID)

	resp, err := postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/approval"),
		map[string]string{"decision": "rejected", "note": "slot conflict"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = postJSON(formatURL("/api/bookings/"+itoa(bookingID)+"/approval"),
		map[string]string{"decision": "approved"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var status, approvalStatus string
	err = testPool.QueryRow(t.Context(),
		"SELECT status, approval_status FROM bookings WHERE id = $1", bookingID).Scan(&status, &approvalStatus)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", status)
	assert.Equal(t, "rejected", approvalStatus)
}
