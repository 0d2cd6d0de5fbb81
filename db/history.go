package db

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/covscan/models"
	"github.com/oxhq/covscan/report"
)

// SaveRun persists one summary as a Run row with its tallies and
// per-project results. History is an artifact of the scan, never a
// dependency: callers treat a failure here as a warning.
func SaveRun(gdb *gorm.DB, summary *report.Summary) (*models.Run, error) {
	grand := summary.Grand()
	run := &models.Run{
		Workspace: summary.Root,
		Covered:   grand.Covered,
		Total:     grand.Total,
		Percent:   grand.Percent(),
		Summary:   summary.Text(),
	}

	for _, tech := range summary.Technologies() {
		t := summary.Tech(tech)
		run.Tallies = append(run.Tallies, models.TechTally{
			Tech:      string(tech),
			Projects:  t.Projects,
			Skipped:   t.Skipped,
			Covered:   t.Covered,
			Total:     t.Total,
			Percent:   t.Percent(),
			Estimated: t.Estimated,
		})
	}

	for _, res := range summary.Results() {
		reports, err := json.Marshal(res.Reports)
		if err != nil {
			reports = []byte("[]")
		}
		run.Results = append(run.Results, models.ProjectResult{
			Tech:      string(res.Project.Tech),
			Name:      res.Project.Name,
			Dir:       res.Project.Dir,
			Status:    string(res.Status),
			Reason:    res.Reason,
			Covered:   res.Coverage.Covered,
			Total:     res.Coverage.Total,
			Estimated: res.Coverage.Estimated,
			Reports:   datatypes.JSON(reports),
		})
	}

	if err := gdb.Create(run).Error; err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(gdb *gorm.DB, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.Run
	err := gdb.Order("created_at DESC, id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// GetRun loads one run by ID, without its associations.
func GetRun(gdb *gorm.DB, id uint) (*models.Run, error) {
	var run models.Run
	if err := gdb.First(&run, id).Error; err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}
	return &run, nil
}

// Prune deletes runs beyond the newest keep, cascading to their tallies
// and results. keep <= 0 disables pruning.
func Prune(gdb *gorm.DB, keep int) error {
	if keep <= 0 {
		return nil
	}
	var all []uint
	err := gdb.Model(&models.Run{}).
		Order("created_at DESC, id DESC").
		Pluck("id", &all).Error
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	if len(all) <= keep {
		return nil
	}
	ids := all[keep:]
	if err := gdb.Where("run_id IN ?", ids).Delete(&models.TechTally{}).Error; err != nil {
		return fmt.Errorf("pruning tallies: %w", err)
	}
	if err := gdb.Where("run_id IN ?", ids).Delete(&models.ProjectResult{}).Error; err != nil {
		return fmt.Errorf("pruning results: %w", err)
	}
	if err := gdb.Delete(&models.Run{}, ids).Error; err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}
