package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerIDStableAcrossClaims(t *testing.T) {
	w := &Worker{}
	first := w.workerID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, w.workerID(), "claimedBy must identify one worker for its whole lifetime")

	named := &Worker{ID: "worker-1"}
	assert.Equal(t, "worker-1", named.workerID())
}

func TestTopicFor(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "booking.events.v1", w.topicFor("booking.requested"))
	assert.Equal(t, "availability.events.v1", w.topicFor("availability.dates_blocked"))

	prefixed := &Worker{TopicPrefix: "staging."}
	assert.Equal(t, "staging.pricing.events.v1", prefixed.topicFor("pricing.seasonal_price_added"))
}

func TestNextRetryUsesBackoffSchedule(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, time.Minute}}
	now := time.Now()
	assert.WithinDuration(t, now.Add(time.Second), w.nextRetry(0), time.Second/2)
	assert.WithinDuration(t, now.Add(time.Minute), w.nextRetry(1), time.Second/2)
	assert.WithinDuration(t, now.Add(time.Minute), w.nextRetry(9), time.Second/2, "attempts past the schedule stay at the last step")
}
