package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planhouse/planhouse/internal/db/schema"
)

// factBatchSize bounds the multi-row insert so bulk loads stay under
// driver placeholder limits.
const factBatchSize = 500

// FactStore provides fact-table operations: the per-file version index,
// delete-and-reload per source file, and soft-delete reconciliation.
type FactStore struct {
	db *gorm.DB
}

// NewFactStore creates a new FactStore.
func NewFactStore(db *gorm.DB) *FactStore {
	return &FactStore{db: db}
}

// FileVersions returns the newest persisted file timestamp per source file.
// An empty map on a fresh warehouse is normal, not an error.
func (s *FactStore) FileVersions() (map[string]float64, error) {
	type version struct {
		SourceFile string  `gorm:"column:source_file"`
		Timestamp  float64 `gorm:"column:ts"`
	}
	var rows []version
	err := s.db.Model(&schema.MediaPlanFact{}).
		Select("source_file, MAX(file_timestamp) AS ts").
		Group("source_file").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load file versions: %w", err)
	}
	versions := make(map[string]float64, len(rows))
	for _, r := range rows {
		versions[r.SourceFile] = r.Timestamp
	}
	return versions, nil
}

// ReplaceFile atomically swaps the fact rows of one source file: everything
// previously attributed to it is deleted and the new rows inserted in a
// single transaction, so a re-ingested file never leaves old and new rows
// side by side.
func (s *FactStore) ReplaceFile(sourceFile string, rows []schema.MediaPlanFact) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_file = ?", sourceFile).
			Delete(&schema.MediaPlanFact{}).Error; err != nil {
			return fmt.Errorf("delete rows of %s: %w", sourceFile, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, factBatchSize).Error; err != nil {
			return fmt.Errorf("insert rows of %s: %w", sourceFile, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace file %s: %w", sourceFile, err)
	}
	return nil
}

// ActiveSourceFiles returns the distinct source files currently marked
// active.
func (s *FactStore) ActiveSourceFiles() ([]string, error) {
	var files []string
	err := s.db.Model(&schema.MediaPlanFact{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("source_file", &files).Error
	if err != nil {
		return nil, fmt.Errorf("list active source files: %w", err)
	}
	return files, nil
}

// DeactivateFiles flips is_active to false for every row of the given source
// files, in one transaction of its own. Rows stay in place; history is kept.
func (s *FactStore) DeactivateFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&schema.MediaPlanFact{}).
			Where("source_file IN ?", files).
			Update("is_active", false).Error
	})
	if err != nil {
		return fmt.Errorf("deactivate %d files: %w", len(files), err)
	}
	return nil
}

// CountBySourceFile counts fact rows attributed to one source file.
func (s *FactStore) CountBySourceFile(sourceFile string) (int64, error) {
	var n int64
	err := s.db.Model(&schema.MediaPlanFact{}).
		Where("source_file = ?", sourceFile).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", sourceFile, err)
	}
	return n, nil
}
