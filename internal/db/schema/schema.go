// Package schema defines the warehouse tables: one dimension table per
// reference type, one alias table per fuzzy-resolved type, the media-plan
// fact table and the ingest run audit table.
package schema

import (
	"time"

	"gorm.io/gorm"
)

// Exhibitor is a canonical media exhibitor (vehicle owner).
type Exhibitor struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_exhibitor_name;not null"`
}

func (Exhibitor) TableName() string { return "dim_exhibitor" }

// Media is a canonical media vehicle. The classification link is set once at
// creation time from the same source row and never updated afterward.
type Media struct {
	ID               int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name             string `gorm:"column:official_name;uniqueIndex:idx_media_name;not null"`
	ClassificationID *int64 `gorm:"column:classification_id"`
}

func (Media) TableName() string { return "dim_media" }

// Campaign is a canonical campaign.
type Campaign struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_campaign_name;not null"`
}

func (Campaign) TableName() string { return "dim_campaign" }

// Target is a canonical target audience.
type Target struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_target_name;not null"`
}

func (Target) TableName() string { return "dim_target" }

// Classification is a canonical media classification.
type Classification struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_classification_name;not null"`
}

func (Classification) TableName() string { return "dim_classification" }

// DisplayType is a canonical display type.
type DisplayType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_display_type_name;not null"`
}

func (DisplayType) TableName() string { return "dim_display_type" }

// Client is a canonical advertising client, created from its directory name.
type Client struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"column:official_name;uniqueIndex:idx_client_name;not null"`
}

func (Client) TableName() string { return "dim_client" }

// ExhibitorAlias maps a previously seen spelling to its exhibitor.
// Alias rows are insert-only: once learned, a spelling is never remapped.
type ExhibitorAlias struct {
	Alias       string `gorm:"column:alias_text;uniqueIndex:idx_exhibitor_alias;not null"`
	DimensionID int64  `gorm:"column:dimension_id;not null"`
}

func (ExhibitorAlias) TableName() string { return "map_exhibitor_alias" }

// MediaAlias maps a previously seen spelling to its media vehicle.
type MediaAlias struct {
	Alias       string `gorm:"column:alias_text;uniqueIndex:idx_media_alias;not null"`
	DimensionID int64  `gorm:"column:dimension_id;not null"`
}

func (MediaAlias) TableName() string { return "map_media_alias" }

// CampaignAlias maps a previously seen spelling to its campaign.
type CampaignAlias struct {
	Alias       string `gorm:"column:alias_text;uniqueIndex:idx_campaign_alias;not null"`
	DimensionID int64  `gorm:"column:dimension_id;not null"`
}

func (CampaignAlias) TableName() string { return "map_campaign_alias" }

// TargetAlias maps a previously seen spelling to its target audience.
type TargetAlias struct {
	Alias       string `gorm:"column:alias_text;uniqueIndex:idx_target_alias;not null"`
	DimensionID int64  `gorm:"column:dimension_id;not null"`
}

func (TargetAlias) TableName() string { return "map_target_alias" }

// MediaPlanFact is one media-plan line item. Rows are replaced wholesale per
// source file; is_active flips to false when the file leaves the watched
// tree.
type MediaPlanFact struct {
	ID int64 `gorm:"primaryKey;autoIncrement;column:id"`

	Code     string `gorm:"column:code;not null"`
	Country  string `gorm:"column:country"`
	Market   string `gorm:"column:market"`
	State    string `gorm:"column:state"`
	Location string `gorm:"column:location"`

	Size                 string `gorm:"column:size"`
	Frequency            string `gorm:"column:frequency"`
	InsertionFacesPeriod string `gorm:"column:insertion_faces_period"`
	StartDate            string `gorm:"column:start_date"`
	EndDate              string `gorm:"column:end_date"`
	FacesXFrequency      string `gorm:"column:faces_x_frequency"`
	CPMTarget            string `gorm:"column:cpm_target"`

	PeriodQuantity *float64 `gorm:"column:period_quantity"`
	PurchaseUnit   *float64 `gorm:"column:purchase_unit"`
	WeeklyFlow     *float64 `gorm:"column:weekly_flow"`
	WeeklyImpact   *float64 `gorm:"column:weekly_impact"`
	PeriodicImpact *float64 `gorm:"column:periodic_impact"`
	NetUnitPrice   *float64 `gorm:"column:net_unit_price"`
	NetTotal       *float64 `gorm:"column:net_total"`

	ExhibitorID   *int64 `gorm:"column:exhibitor_id"`
	MediaID       *int64 `gorm:"column:media_id"`
	CampaignID    *int64 `gorm:"column:campaign_id"`
	TargetID      *int64 `gorm:"column:target_id"`
	DisplayTypeID *int64 `gorm:"column:display_type_id"`
	ClientID      int64  `gorm:"column:client_id;not null"`

	SourceFile    string  `gorm:"column:source_file;index:idx_fact_source_file;not null"`
	FileTimestamp float64 `gorm:"column:file_timestamp;not null"`
	IsActive      bool    `gorm:"column:is_active;index:idx_fact_is_active;not null"`
}

func (MediaPlanFact) TableName() string { return "fact_media_plan" }

// IngestRun is the audit record for one orchestrator pass.
type IngestRun struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	FinishedAt *time.Time `gorm:"column:finished_at"`

	FilesNew         int   `gorm:"column:files_new"`
	FilesUpdated     int   `gorm:"column:files_updated"`
	FilesUnchanged   int   `gorm:"column:files_unchanged"`
	FilesSkipped     int   `gorm:"column:files_skipped"`
	RowsLoaded       int   `gorm:"column:rows_loaded"`
	FilesDeactivated int   `gorm:"column:files_deactivated"`
	DurationMs       int64 `gorm:"column:duration_ms"`
}

func (IngestRun) TableName() string { return "ingest_runs" }

// AutoMigrate creates or updates every warehouse table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Exhibitor{},
		&Media{},
		&Campaign{},
		&Target{},
		&Classification{},
		&DisplayType{},
		&Client{},
		&ExhibitorAlias{},
		&MediaAlias{},
		&CampaignAlias{},
		&TargetAlias{},
		&MediaPlanFact{},
		&IngestRun{},
	)
}
