package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planhouse/planhouse/internal/db/schema"
)

// RunStore persists the per-run audit records.
type RunStore struct {
	db *gorm.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *gorm.DB) *RunStore {
	return &RunStore{db: db}
}

// Start records the beginning of an orchestrator pass.
func (s *RunStore) Start(run *schema.IngestRun) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("start ingest run: %w", err)
	}
	return nil
}

// Finish updates the run with its final counters.
func (s *RunStore) Finish(run *schema.IngestRun) error {
	if err := s.db.Save(run).Error; err != nil {
		return fmt.Errorf("finish ingest run: %w", err)
	}
	return nil
}

// Recent returns the most recently started runs, newest first.
func (s *RunStore) Recent(limit int) ([]schema.IngestRun, error) {
	var runs []schema.IngestRun
	err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	return runs, nil
}
