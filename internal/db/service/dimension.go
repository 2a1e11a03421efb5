// Package service is the persistence gateway: the only layer that touches
// warehouse storage. Resolvers and the orchestrator call into it; nothing
// else issues SQL.
package service

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/planhouse/planhouse/internal/db/schema"
)

// DimensionRecord is one canonical row of a dimension table.
type DimensionRecord struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:official_name"`
}

// AliasRecord is one learned spelling of a fuzzy-resolved dimension.
type AliasRecord struct {
	Alias       string `gorm:"column:alias_text"`
	DimensionID int64  `gorm:"column:dimension_id"`
}

// DimensionStore provides canonical-row and alias operations for every
// dimension kind. All creation goes through the conflict-safe insert path:
// attempt the insert with ON CONFLICT DO NOTHING, then read the surviving
// row back. That is the only concurrency primitive the resolvers rely on.
type DimensionStore struct {
	db *gorm.DB
}

// NewDimensionStore creates a new DimensionStore.
func NewDimensionStore(db *gorm.DB) *DimensionStore {
	return &DimensionStore{db: db}
}

// Lookup finds a canonical row by its exact persisted name. The boolean
// result distinguishes "absent" from a genuine storage error.
func (s *DimensionStore) Lookup(kind schema.Kind, name string) (int64, bool, error) {
	var rec DimensionRecord
	err := s.db.Table(kind.Table).Select("id", "official_name").
		Where("official_name = ?", name).Take(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup %s %q: %w", kind.Name, name, err)
	}
	return rec.ID, true, nil
}

// Create inserts a canonical row, tolerating a concurrent or re-entrant
// insert of the same name: on a uniqueness conflict nothing is written and
// the existing id is read back instead. link carries the optional
// classification reference and is only honored for the media kind.
func (s *DimensionStore) Create(kind schema.Kind, name string, link *int64) (int64, error) {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "official_name"}},
		DoNothing: true,
	}

	var res *gorm.DB
	if kind == schema.KindMedia {
		row := schema.Media{Name: name, ClassificationID: link}
		res = s.db.Clauses(onConflict).Create(&row)
		if res.Error == nil && res.RowsAffected > 0 {
			return row.ID, nil
		}
	} else {
		row := struct {
			ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
			Name string `gorm:"column:official_name"`
		}{Name: name}
		res = s.db.Table(kind.Table).Clauses(onConflict).Create(&row)
		if res.Error == nil && res.RowsAffected > 0 {
			return row.ID, nil
		}
	}
	if res.Error != nil {
		return 0, fmt.Errorf("create %s %q: %w", kind.Name, name, res.Error)
	}

	// Conflict path: someone else won the insert, read their row.
	id, found, err := s.Lookup(kind, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("create %s %q: conflict reported but row absent", kind.Name, name)
	}
	return id, nil
}

// SaveAlias records a learned spelling. Existing aliases are left untouched:
// once a spelling maps to an id, it is never remapped.
func (s *DimensionStore) SaveAlias(kind schema.Kind, alias string, id int64) error {
	if !kind.HasAlias() {
		return fmt.Errorf("save alias: kind %s has no alias table", kind.Name)
	}
	rec := AliasRecord{Alias: alias, DimensionID: id}
	err := s.db.Table(kind.AliasTable).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias_text"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s alias %q: %w", kind.Name, alias, err)
	}
	return nil
}

// List returns every canonical row of the kind.
func (s *DimensionStore) List(kind schema.Kind) ([]DimensionRecord, error) {
	var recs []DimensionRecord
	err := s.db.Table(kind.Table).Select("id", "official_name").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Name, err)
	}
	return recs, nil
}

// ListAliases returns every learned alias of the kind.
func (s *DimensionStore) ListAliases(kind schema.Kind) ([]AliasRecord, error) {
	if !kind.HasAlias() {
		return nil, fmt.Errorf("list aliases: kind %s has no alias table", kind.Name)
	}
	var recs []AliasRecord
	err := s.db.Table(kind.AliasTable).Select("alias_text", "dimension_id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s aliases: %w", kind.Name, err)
	}
	return recs, nil
}
