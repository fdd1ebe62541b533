package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func obs(serviceID uint, status types.ServiceStatus, latencyMS *int64, checkedAt time.Time) models.Observation {
	return models.Observation{
		ServiceID: serviceID,
		Status:    status,
		LatencyMS: latencyMS,
		CheckedAt: checkedAt,
	}
}

func ms(v int64) *int64 { return &v }

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	var observations []models.Observation
	for i := 0; i < 22; i++ {
		observations = append(observations, obs(1, types.StatusOperational, ms(100), day.Add(time.Duration(i)*time.Hour/2)))
	}
	observations = append(observations,
		obs(1, types.StatusMajorOutage, nil, day.Add(22*time.Hour)),
		obs(1, types.StatusDegraded, ms(320), day.Add(23*time.Hour)),
	)

	summary := summarize(observations)

	assert.Equal(t, 24, summary.TotalChecks)
	assert.Equal(t, 22, summary.SuccessfulChecks)
	assert.InDelta(t, 91.67, summary.UptimePercentage, 0.001)

	// Mean latency covers every observation that recorded one, including the
	// degraded check. (22*100 + 320) / 23 = 109.57 rounds to 110.
	require.NotNil(t, summary.AvgLatencyMS)
	assert.Equal(t, int64(110), *summary.AvgLatencyMS)
}

func TestSummarizeNoLatencies(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	summary := summarize([]models.Observation{
		obs(1, types.StatusMajorOutage, nil, day),
		obs(1, types.StatusMajorOutage, nil, day.Add(time.Minute)),
	})

	assert.Equal(t, 0.0, summary.UptimePercentage)
	assert.Equal(t, 2, summary.TotalChecks)
	assert.Equal(t, 0, summary.SuccessfulChecks)
	assert.Nil(t, summary.AvgLatencyMS)
}

func TestSummarizeAllOperational(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	summary := summarize([]models.Observation{
		obs(1, types.StatusOperational, ms(50), day),
		obs(1, types.StatusOperational, ms(70), day.Add(time.Minute)),
	})

	assert.Equal(t, 100.0, summary.UptimePercentage)
	require.NotNil(t, summary.AvgLatencyMS)
	assert.Equal(t, int64(60), *summary.AvgLatencyMS)
}

func TestRollUpWritesSummariesAndSkipsEmpty(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	st := newFakeStore()
	st.services = []models.Service{
		{Model: gorm.Model{ID: 1}, Name: "api"},
		{Model: gorm.Model{ID: 2}, Name: "idle"},
	}
	st.obsByService[1] = []models.Observation{
		obs(1, types.StatusOperational, ms(100), day.Add(time.Hour)),
		obs(1, types.StatusMajorOutage, nil, day.Add(2*time.Hour)),
	}

	agg := NewAggregator(st, quietLogger(), 7)

	require.NoError(t, agg.RollUp(context.Background(), day.Add(13*time.Hour)))

	// The idle service produced no observations and gets no summary row.
	require.Len(t, st.summaries, 1)

	summary := st.summaries[0]
	assert.Equal(t, uint(1), summary.ServiceID)
	assert.Equal(t, day, summary.Date)
	assert.Equal(t, 2, summary.TotalChecks)
	assert.Equal(t, 1, summary.SuccessfulChecks)
	assert.InDelta(t, 50.0, summary.UptimePercentage, 0.001)
}

func TestRollUpPrunesAgainstRetentionWindow(t *testing.T) {
	st := newFakeStore()

	agg := NewAggregator(st, quietLogger(), 7)

	require.NoError(t, agg.RollUp(context.Background(), time.Now().UTC().AddDate(0, 0, -1)))

	// The prune runs even when there was nothing to summarize, anchored to
	// now rather than the roll-up date.
	require.Len(t, st.pruneCalls, 1)

	expected := time.Now().UTC().AddDate(0, 0, -7)
	assert.WithinDuration(t, expected, st.pruneCalls[0], time.Minute)
}

func TestRollUpContinuesPastServiceErrors(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	st := newFakeStore()
	st.services = []models.Service{
		{Model: gorm.Model{ID: 1}, Name: "broken"},
		{Model: gorm.Model{ID: 2}, Name: "fine"},
	}
	st.obsErrFor[1] = context.DeadlineExceeded
	st.obsByService[2] = []models.Observation{
		obs(2, types.StatusOperational, ms(80), day.Add(time.Hour)),
	}

	agg := NewAggregator(st, quietLogger(), 7)

	require.NoError(t, agg.RollUp(context.Background(), day))

	require.Len(t, st.summaries, 1)
	assert.Equal(t, uint(2), st.summaries[0].ServiceID)
}

func TestRollUpListErrorAborts(t *testing.T) {
	st := newFakeStore()
	st.listErr = context.DeadlineExceeded

	agg := NewAggregator(st, quietLogger(), 7)

	assert.Error(t, agg.RollUp(context.Background(), time.Now()))
	assert.Empty(t, st.pruneCalls)
}
