package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one scan of a workspace, persisted as a timestamped artifact.
// History is write-once: runs are created, pruned by retention, never
// updated.
type Run struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	Workspace string `gorm:"type:varchar(500);not null"`

	// Grand totals across technologies.
	Covered int64
	Total   int64
	Percent float64

	// Summary is the rendered plain-text report, kept verbatim so two
	// runs can be diffed without re-deriving formatting.
	Summary string `gorm:"type:text"`

	Tallies []TechTally     `gorm:"foreignKey:RunID"`
	Results []ProjectResult `gorm:"foreignKey:RunID"`
}

// TechTally is one technology's rollup within a run.
type TechTally struct {
	ID    uint `gorm:"primaryKey"`
	RunID uint `gorm:"index;not null"`

	Tech      string `gorm:"type:varchar(20);not null"`
	Projects  int
	Skipped   int
	Covered   int64
	Total     int64
	Percent   float64
	Estimated bool `gorm:"default:false"`
}

// ProjectResult is one logical project's outcome within a run, including
// the skip reason when it contributed nothing.
type ProjectResult struct {
	ID    uint `gorm:"primaryKey"`
	RunID uint `gorm:"index;not null"`

	Tech   string `gorm:"type:varchar(20);not null"`
	Name   string `gorm:"type:varchar(255);not null"`
	Dir    string `gorm:"type:varchar(500)"`
	Status string `gorm:"type:varchar(16);not null"`
	Reason string `gorm:"type:text"`

	Covered   int64
	Total     int64
	Estimated bool `gorm:"default:false"`

	// Reports lists the preserved raw report artifacts.
	Reports datatypes.JSON `gorm:"type:jsonb"`
}
