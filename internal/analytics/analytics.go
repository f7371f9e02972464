// Package analytics computes descriptive statistics for progress and cohort
// views. Pure functions over score slices; no I/O.
package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/screening"
)

// riskLevels enumerates the four levels so distributions carry zero counts
// for levels no attempt landed in.
var riskLevels = []screening.RiskLevel{
	screening.RiskNone,
	screening.RiskLow,
	screening.RiskMedium,
	screening.RiskHigh,
}

// Describe summarizes a set of overall scores. An empty input yields a zero
// summary rather than an error so views with no scored attempts render empty.
func Describe(values []float64) (models.ScoreSummary, error) {
	if len(values) == 0 {
		return models.ScoreSummary{}, nil
	}

	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return models.ScoreSummary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return models.ScoreSummary{}, err
	}
	stdDev, err := data.StandardDeviation()
	if err != nil {
		return models.ScoreSummary{}, err
	}
	min, err := data.Min()
	if err != nil {
		return models.ScoreSummary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return models.ScoreSummary{}, err
	}
	p25, err := data.Percentile(25)
	if err != nil {
		return models.ScoreSummary{}, err
	}
	p75, err := data.Percentile(75)
	if err != nil {
		return models.ScoreSummary{}, err
	}

	return models.ScoreSummary{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		P25:    p25,
		P75:    p75,
	}, nil
}

// TrendSlope fits a least-squares line through a student's chronological
// scores and returns its slope in points per attempt. Positive means
// improving. Fewer than two points have no trend.
func TrendSlope(points []models.TrendPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Score
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}

// DistributionBySeverity orders risk-level counts most severe first, the
// order faculty views display them in. Levels with no attempts are included
// with a zero count so the output shape is stable.
func DistributionBySeverity(counts map[screening.RiskLevel]int) []models.RiskCount {
	out := make([]models.RiskCount, 0, len(riskLevels))
	for _, level := range riskLevels {
		out = append(out, models.RiskCount{Level: level, Count: counts[level]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Level.Severity() < out[j].Level.Severity()
	})
	return out
}
