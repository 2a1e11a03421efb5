// Package ingest drives one warehouse load pass: it walks the client
// directory tree, decides per file whether anything changed, runs
// extraction and resolution, replaces the file's fact rows, and finally
// reconciles the active-file set against what the pass actually saw.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planhouse/planhouse/internal/db/schema"
	"github.com/planhouse/planhouse/internal/db/service"
	"github.com/planhouse/planhouse/internal/extract"
	"github.com/planhouse/planhouse/internal/resolve"
)

// timestampTolerance absorbs filesystem timestamp jitter: a file whose
// modification time moved by less than this is considered unchanged.
const timestampTolerance = 0.1

// fileMode classifies one discovered file against the persisted version
// index.
type fileMode int

const (
	modeNew fileMode = iota
	modeUpdate
	modeUnchanged
)

// Summary is the outcome of one pass.
type Summary struct {
	RunID       string
	New         int
	Updated     int
	Unchanged   int
	Skipped     int
	RowsLoaded  int
	Deactivated int
}

// Orchestrator owns the run-scoped state of a load pass: the resolution
// caches, the version index and the set of files seen so far.
type Orchestrator struct {
	root     string
	resolver *resolve.Resolver
	facts    *service.FactStore
	runs     *service.RunStore
	logger   *slog.Logger

	// strategyFor is swappable so tests can inject a mapper.
	strategyFor func(client string) extract.Mapper
}

// New wires an Orchestrator onto the given warehouse connection.
func New(db *gorm.DB, root string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		root:        root,
		resolver:    resolve.New(service.NewDimensionStore(db), logger),
		facts:       service.NewFactStore(db),
		runs:        service.NewRunStore(db),
		logger:      logger,
		strategyFor: extract.StrategyFor,
	}
}

// Run executes one full pass. File-scoped failures are logged and skipped;
// only storage-level failures (version index, audit record, unreadable
// root) abort the run. Cancellation is honored between files.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	run := &schema.IngestRun{ID: uuid.NewString(), StartedAt: started}
	if err := o.runs.Start(run); err != nil {
		return nil, err
	}
	summary := &Summary{RunID: run.ID}

	o.resolver.Load()

	versions, err := o.facts.FileVersions()
	if err != nil {
		return nil, err
	}
	active, err := o.facts.ActiveSourceFiles()
	if err != nil {
		return nil, err
	}
	activeSet := make(map[string]bool, len(active))
	for _, f := range active {
		activeSet[f] = true
	}
	o.logger.Info("version index loaded", "run", run.ID, "tracked_files", len(versions))

	entries, err := os.ReadDir(o.root)
	if err != nil {
		return nil, fmt.Errorf("read root directory %s: %w", o.root, err)
	}

	var seen []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		o.processClient(ctx, entry.Name(), versions, activeSet, &seen, summary)
		if ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() == nil {
		summary.Deactivated = o.reconcile(seen)
	}

	finished := time.Now()
	run.FinishedAt = &finished
	run.FilesNew = summary.New
	run.FilesUpdated = summary.Updated
	run.FilesUnchanged = summary.Unchanged
	run.FilesSkipped = summary.Skipped
	run.RowsLoaded = summary.RowsLoaded
	run.FilesDeactivated = summary.Deactivated
	run.DurationMs = finished.Sub(started).Milliseconds()
	if err := o.runs.Finish(run); err != nil {
		o.logger.Warn("failed to persist run summary", "run", run.ID, "error", err)
	}

	o.logger.Info("pass finished",
		"run", run.ID,
		"new", summary.New,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"skipped", summary.Skipped,
		"rows", summary.RowsLoaded,
		"deactivated", summary.Deactivated)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processClient resolves the client directory to its dimension id and loads
// every workbook beneath it.
func (o *Orchestrator) processClient(ctx context.Context, clientName string, versions map[string]float64, activeSet map[string]bool, seen *[]string, summary *Summary) {
	clientID, err := o.resolver.ResolveExact(schema.KindClient, clientName)
	if err != nil {
		o.logger.Error("client resolution failed, skipping directory", "client", clientName, "error", err)
		return
	}
	if clientID == nil {
		o.logger.Warn("invalid client directory name, skipping", "client", clientName)
		return
	}

	dir := filepath.Join(o.root, clientName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		o.logger.Error("client directory unreadable, skipping", "client", clientName, "error", err)
		return
	}

	clientLabel := strings.ToUpper(strings.TrimSpace(clientName))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}

		sourceFile := clientLabel + "/" + name
		*seen = append(*seen, sourceFile)

		info, err := entry.Info()
		if err != nil {
			o.logger.Error("stat failed, skipping file", "file", sourceFile, "error", err)
			summary.Skipped++
			continue
		}
		timestamp := float64(info.ModTime().UnixNano()) / float64(time.Second)

		mode := classify(sourceFile, timestamp, versions, activeSet)
		if mode == modeUnchanged {
			summary.Unchanged++
			continue
		}

		if o.loadFile(filepath.Join(dir, name), sourceFile, clientName, *clientID, timestamp, summary) {
			switch mode {
			case modeNew:
				summary.New++
			case modeUpdate:
				summary.Updated++
			}
		}
	}
}

// classify decides what to do with a discovered file. A file whose rows were
// soft-deleted is re-ingested even when its timestamp matches, so a file
// that disappears and later reappears comes back through a full load rather
// than a flag flip.
func classify(sourceFile string, timestamp float64, versions map[string]float64, activeSet map[string]bool) fileMode {
	prev, tracked := versions[sourceFile]
	if !tracked {
		return modeNew
	}
	if math.Abs(timestamp-prev) > timestampTolerance {
		return modeUpdate
	}
	if !activeSet[sourceFile] {
		return modeUpdate
	}
	return modeUnchanged
}

// loadFile runs extraction, cleanup, resolution and the fact swap for one
// workbook. Any failure is file-scoped: the file is skipped, the version
// index is left untouched, and a corrected file is retried next run.
func (o *Orchestrator) loadFile(path, sourceFile, clientName string, clientID int64, timestamp float64, summary *Summary) bool {
	table, err := o.strategyFor(clientName).Map(path)
	if err != nil {
		o.logger.Warn("structural mapping failed, skipping file", "file", sourceFile, "error", err)
		summary.Skipped++
		return false
	}

	cleaned := extract.Clean(table)
	if len(cleaned.Rows) == 0 {
		o.logger.Warn("no usable rows after cleanup, skipping file", "file", sourceFile)
		summary.Skipped++
		return false
	}

	facts := make([]schema.MediaPlanFact, 0, len(cleaned.Rows))
	for _, row := range cleaned.Rows {
		fact, err := o.resolveRow(row, clientID, sourceFile, timestamp)
		if err != nil {
			o.logger.Error("resolution failed, skipping file", "file", sourceFile, "error", err)
			summary.Skipped++
			return false
		}
		facts = append(facts, *fact)
	}

	if err := o.facts.ReplaceFile(sourceFile, facts); err != nil {
		o.logger.Error("fact load failed, skipping file", "file", sourceFile, "error", err)
		summary.Skipped++
		return false
	}

	summary.RowsLoaded += len(facts)
	o.logger.Info("file loaded", "file", sourceFile, "rows", len(facts))
	return true
}

// resolveRow turns the raw text columns of one cleaned row into dimension
// ids and assembles the fact record. Classification is resolved before
// media so a newly created media row can carry the link.
func (o *Orchestrator) resolveRow(row extract.Row, clientID int64, sourceFile string, timestamp float64) (*schema.MediaPlanFact, error) {
	classificationID, err := o.resolver.ResolveExact(schema.KindClassification, row.Classification)
	if err != nil {
		return nil, err
	}
	displayTypeID, err := o.resolver.ResolveExact(schema.KindDisplayType, row.DisplayType)
	if err != nil {
		return nil, err
	}
	exhibitorID, err := o.resolver.ResolveFuzzy(schema.KindExhibitor, row.Exhibitor, nil)
	if err != nil {
		return nil, err
	}
	campaignID, err := o.resolver.ResolveFuzzy(schema.KindCampaign, row.Campaign, nil)
	if err != nil {
		return nil, err
	}
	targetID, err := o.resolver.ResolveFuzzy(schema.KindTarget, row.Target, nil)
	if err != nil {
		return nil, err
	}
	mediaID, err := o.resolver.ResolveFuzzy(schema.KindMedia, row.Media, classificationID)
	if err != nil {
		return nil, err
	}

	return &schema.MediaPlanFact{
		Code:     row.Code,
		Country:  row.Country,
		Market:   row.Market,
		State:    row.State,
		Location: row.Location,

		Size:                 row.Size,
		Frequency:            row.Frequency,
		InsertionFacesPeriod: row.InsertionFacesPeriod,
		StartDate:            row.StartDate,
		EndDate:              row.EndDate,
		FacesXFrequency:      row.FacesXFrequency,
		CPMTarget:            row.CPMTarget,

		PeriodQuantity: extract.ParseNumber(row.PeriodQuantity),
		PurchaseUnit:   extract.ParseNumber(row.PurchaseUnit),
		WeeklyFlow:     extract.ParseNumber(row.WeeklyFlow),
		WeeklyImpact:   extract.ParseNumber(row.WeeklyImpact),
		PeriodicImpact: extract.ParseNumber(row.PeriodicImpact),
		NetUnitPrice:   extract.ParseNumber(row.NetUnitPrice),
		NetTotal:       extract.ParseNumber(row.NetTotal),

		ExhibitorID:   exhibitorID,
		MediaID:       mediaID,
		CampaignID:    campaignID,
		TargetID:      targetID,
		DisplayTypeID: displayTypeID,
		ClientID:      clientID,

		SourceFile:    sourceFile,
		FileTimestamp: timestamp,
		IsActive:      true,
	}, nil
}

// reconcile soft-deletes every active source file the pass did not see.
// Failures here are logged, not raised: history stays intact and the next
// run repeats the comparison.
func (o *Orchestrator) reconcile(seen []string) int {
	seenSet := make(map[string]bool, len(seen))
	for _, f := range seen {
		seenSet[f] = true
	}

	active, err := o.facts.ActiveSourceFiles()
	if err != nil {
		o.logger.Error("reconciliation failed", "error", err)
		return 0
	}

	var orphans []string
	for _, f := range active {
		if !seenSet[f] {
			orphans = append(orphans, f)
		}
	}
	if len(orphans) == 0 {
		return 0
	}

	if err := o.facts.DeactivateFiles(orphans); err != nil {
		o.logger.Error("reconciliation failed", "error", err)
		return 0
	}
	o.logger.Info("orphaned files archived", "count", len(orphans))
	return len(orphans)
}
