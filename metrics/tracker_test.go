package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestTracker_RecordRequest(t *testing.T) {
	tracker := NewTracker()

	tracker.RecordRequest("GET /auctions/{auctionID}/bids", 200, 10*time.Millisecond)
	tracker.RecordRequest("GET /auctions/{auctionID}/bids", 200, 30*time.Millisecond)
	tracker.RecordRequest("GET /auctions/{auctionID}/bids", 404, 2*time.Millisecond)

	snap := tracker.Snapshot()
	route, ok := snap.Requests["GET /auctions/{auctionID}/bids"]
	assert.True(t, ok)
	check.Equal(t, int64(3), route.Count)
	check.Equal(t, int64(2), route.ByStatus["200"])
	check.Equal(t, int64(1), route.ByStatus["404"])
	check.Equal(t, (14 * time.Millisecond).String(), route.AvgDuration)
	check.Equal(t, (30 * time.Millisecond).String(), route.MaxDuration)
}

func TestTracker_RecordStoreOp(t *testing.T) {
	tracker := NewTracker()

	tracker.RecordStoreOp("result.upsert", 5*time.Millisecond, nil)
	tracker.RecordStoreOp("result.upsert", 15*time.Millisecond, errors.New("deadlock"))

	snap := tracker.Snapshot()
	op, ok := snap.StoreOps["result.upsert"]
	assert.True(t, ok)
	check.Equal(t, int64(2), op.Count)
	check.Equal(t, int64(1), op.Failures)
	check.Equal(t, (10 * time.Millisecond).String(), op.AvgDuration)
	check.Equal(t, (15 * time.Millisecond).String(), op.MaxDuration)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordRequest("GET /metrics", 200, time.Millisecond)
	tracker.RecordStoreOp("bid.mark_winning", time.Millisecond, nil)

	tracker.Reset()

	snap := tracker.Snapshot()
	check.Equal(t, 0, len(snap.Requests))
	check.Equal(t, 0, len(snap.StoreOps))
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordRequest("GET /metrics", 200, time.Millisecond)

	snap := tracker.Snapshot()
	snap.Requests["GET /metrics"] = RequestMetrics{Count: 99}

	again := tracker.Snapshot()
	check.Equal(t, int64(1), again.Requests["GET /metrics"].Count)
}
