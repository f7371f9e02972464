package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurobloom/screener/internal/analytics"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/screening"
)

func TestDescribe(t *testing.T) {
	summary, err := analytics.Describe([]float64{40, 50, 60, 70, 80})

	require.NoError(t, err)
	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, 60.0, summary.Mean)
	assert.Equal(t, 60.0, summary.Median)
	assert.Equal(t, 40.0, summary.Min)
	assert.Equal(t, 80.0, summary.Max)
	assert.Greater(t, summary.StdDev, 0.0)
	assert.LessOrEqual(t, summary.P25, summary.Median)
	assert.GreaterOrEqual(t, summary.P75, summary.Median)
}

func TestDescribe_EmptyInput(t *testing.T) {
	summary, err := analytics.Describe(nil)

	require.NoError(t, err)
	assert.Equal(t, models.ScoreSummary{}, summary, "no scores should yield a zero summary")
}

func TestDescribe_SingleValue(t *testing.T) {
	summary, err := analytics.Describe([]float64{55})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 55.0, summary.Mean)
	assert.Equal(t, 55.0, summary.Min)
	assert.Equal(t, 55.0, summary.Max)
}

func TestTrendSlope_Improving(t *testing.T) {
	base := time.Now()
	points := []models.TrendPoint{
		{AttemptID: 1, Score: 40, CompletedAt: base},
		{AttemptID: 2, Score: 45, CompletedAt: base.Add(24 * time.Hour)},
		{AttemptID: 3, Score: 50, CompletedAt: base.Add(48 * time.Hour)},
	}

	slope := analytics.TrendSlope(points)

	assert.InDelta(t, 5.0, slope, 1e-9, "scores rising 5 points per attempt")
}

func TestTrendSlope_Declining(t *testing.T) {
	points := []models.TrendPoint{
		{AttemptID: 1, Score: 62},
		{AttemptID: 2, Score: 55},
		{AttemptID: 3, Score: 47},
	}

	assert.Less(t, analytics.TrendSlope(points), 0.0)
}

func TestTrendSlope_TooFewPoints(t *testing.T) {
	assert.Equal(t, 0.0, analytics.TrendSlope(nil))
	assert.Equal(t, 0.0, analytics.TrendSlope([]models.TrendPoint{{Score: 50}}))
}

func TestDistributionBySeverity(t *testing.T) {
	counts := map[screening.RiskLevel]int{
		screening.RiskNone: 12,
		screening.RiskHigh: 3,
		screening.RiskLow:  5,
	}

	dist := analytics.DistributionBySeverity(counts)

	require.Len(t, dist, 4)
	assert.Equal(t, screening.RiskHigh, dist[0].Level, "most severe level first")
	assert.Equal(t, 3, dist[0].Count)
	assert.Equal(t, screening.RiskMedium, dist[1].Level)
	assert.Equal(t, 0, dist[1].Count, "levels without attempts still appear")
	assert.Equal(t, screening.RiskLow, dist[2].Level)
	assert.Equal(t, screening.RiskNone, dist[3].Level)
	assert.Equal(t, 12, dist[3].Count)
}
