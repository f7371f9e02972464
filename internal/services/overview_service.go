package services

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/neurobloom/screener/internal/analytics"
	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
	"github.com/neurobloom/screener/internal/screening"
)

// OverviewService handles the faculty-facing cohort views
type OverviewService interface {
	CohortOverview(ctx context.Context, filter models.CohortFilter) (*models.CohortOverview, error)
	Roster(ctx context.Context, filter models.StudentFilter) ([]models.RosterEntry, error)
	ExportOverviewXLSX(ctx context.Context, w io.Writer, filter models.CohortFilter) error
}

type overviewService struct {
	statsRepo repository.StatsRepository
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(statsRepo repository.StatsRepository) OverviewService {
	return &overviewService{statsRepo: statsRepo}
}

func (s *overviewService) CohortOverview(ctx context.Context, filter models.CohortFilter) (*models.CohortOverview, error) {
	log := logger.FromContext(ctx)
	log.Debug("building cohort overview: class=%s", filter.ClassName)

	var (
		scores      []float64
		counts      map[screening.RiskLevel]int
		skills      []models.GameSkill
		students    int
		scoredCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scores, err = s.statsRepo.CohortScores(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.statsRepo.RiskLevelCounts(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = s.statsRepo.GameComponentMeans(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = s.statsRepo.CountStudents(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		scoredCount, err = s.statsRepo.CountScoredAttempts(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to gather overview data: %v", err)
		return nil, errors.NewInternalError(err)
	}

	summary, err := analytics.Describe(scores)
	if err != nil {
		log.Error("failed to summarize scores: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.CohortOverview{
		Students:       students,
		ScoredAttempts: scoredCount,
		Summary:        summary,
		Distribution:   analytics.DistributionBySeverity(counts),
		GameSkills:     skills,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (s *overviewService) Roster(ctx context.Context, filter models.StudentFilter) ([]models.RosterEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("building roster")

	roster, err := s.statsRepo.Roster(ctx, filter)
	if err != nil {
		log.Error("failed to build roster: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return roster, nil
}

// ExportOverviewXLSX writes the cohort overview and the full roster as a
// two-sheet spreadsheet.
func (s *overviewService) ExportOverviewXLSX(ctx context.Context, w io.Writer, filter models.CohortFilter) error {
	log := logger.FromContext(ctx)
	log.Debug("exporting overview workbook: class=%s", filter.ClassName)

	overview, err := s.CohortOverview(ctx, filter)
	if err != nil {
		return err
	}
	roster, err := s.Roster(ctx, models.StudentFilter{ClassName: filter.ClassName, Limit: 10000})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, overview); err != nil {
		log.Error("failed to build summary sheet: %v", err)
		return errors.NewInternalError(err)
	}
	if err := writeRosterSheet(f, roster); err != nil {
		log.Error("failed to build roster sheet: %v", err)
		return errors.NewInternalError(err)
	}

	if err := f.Write(w); err != nil {
		log.Error("failed to write workbook: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("overview workbook exported: %d roster rows", len(roster))
	return nil
}

func writeSummarySheet(f *excelize.File, overview *models.CohortOverview) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	row := 1
	writePair := func(label string, value any) error {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, labelCell, label); err != nil {
			return err
		}
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(sheet, valueCell, value); err != nil {
			return err
		}
		row++
		return nil
	}

	pairs := []struct {
		label string
		value any
	}{
		{"Students", overview.Students},
		{"Scored attempts", overview.ScoredAttempts},
		{"Mean score", overview.Summary.Mean},
		{"Median score", overview.Summary.Median},
		{"Std dev", overview.Summary.StdDev},
		{"Min score", overview.Summary.Min},
		{"Max score", overview.Summary.Max},
		{"25th percentile", overview.Summary.P25},
		{"75th percentile", overview.Summary.P75},
	}
	for _, p := range pairs {
		if err := writePair(p.label, p.value); err != nil {
			return err
		}
	}

	row++
	if err := writePair("Risk level", "Reports"); err != nil {
		return err
	}
	for _, rc := range overview.Distribution {
		if err := writePair(string(rc.Level), rc.Count); err != nil {
			return err
		}
	}

	row++
	if err := writePair("Game", "Mean component score"); err != nil {
		return err
	}
	for _, skill := range overview.GameSkills {
		if err := writePair(string(skill.Game), skill.MeanComponentScore); err != nil {
			return err
		}
	}

	row++
	return writePair("Generated at", overview.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}

func writeRosterSheet(f *excelize.File, roster []models.RosterEntry) error {
	const sheet = "Roster"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Student", "Email", "Class", "Attempts", "Latest score", "Latest risk", "Last attempt"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, entry := range roster {
		rowIdx := r + 2
		values := []any{
			entry.Student.FullName,
			entry.Student.Email,
			entry.Student.ClassName,
			entry.AttemptsCount,
		}
		if entry.LatestScore != nil {
			values = append(values, *entry.LatestScore)
		} else {
			values = append(values, "")
		}
		if entry.LatestRiskLevel != nil {
			values = append(values, string(*entry.LatestRiskLevel))
		} else {
			values = append(values, "")
		}
		if entry.LastAttemptAt != nil {
			values = append(values, entry.LastAttemptAt.Format("2006-01-02 15:04"))
		} else {
			values = append(values, "")
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "G", 16)
}
