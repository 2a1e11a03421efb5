package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhouse/planhouse/internal/db/schema"
)

func factRow(sourceFile string, ts float64, code string) schema.MediaPlanFact {
	return schema.MediaPlanFact{
		Code:          code,
		ClientID:      1,
		SourceFile:    sourceFile,
		FileTimestamp: ts,
		IsActive:      true,
	}
}

func TestReplaceFileSwapsRows(t *testing.T) {
	store := NewFactStore(setupTestDB(t))

	old := []schema.MediaPlanFact{
		factRow("ACME/plan.xlsx", 100, "A1"),
		factRow("ACME/plan.xlsx", 100, "A2"),
		factRow("ACME/plan.xlsx", 100, "A3"),
	}
	require.NoError(t, store.ReplaceFile("ACME/plan.xlsx", old))

	replacement := []schema.MediaPlanFact{factRow("ACME/plan.xlsx", 200, "B1")}
	require.NoError(t, store.ReplaceFile("ACME/plan.xlsx", replacement))

	n, err := store.CountBySourceFile("ACME/plan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReplaceFileLeavesOtherFilesAlone(t *testing.T) {
	store := NewFactStore(setupTestDB(t))

	require.NoError(t, store.ReplaceFile("ACME/a.xlsx", []schema.MediaPlanFact{factRow("ACME/a.xlsx", 1, "A")}))
	require.NoError(t, store.ReplaceFile("ACME/b.xlsx", []schema.MediaPlanFact{factRow("ACME/b.xlsx", 1, "B")}))
	require.NoError(t, store.ReplaceFile("ACME/a.xlsx", nil))

	n, err := store.CountBySourceFile("ACME/b.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFileVersions(t *testing.T) {
	store := NewFactStore(setupTestDB(t))

	require.NoError(t, store.ReplaceFile("ACME/a.xlsx", []schema.MediaPlanFact{factRow("ACME/a.xlsx", 123.5, "A")}))
	require.NoError(t, store.ReplaceFile("BETA/b.xlsx", []schema.MediaPlanFact{factRow("BETA/b.xlsx", 77, "B")}))

	versions, err := store.FileVersions()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"ACME/a.xlsx": 123.5,
		"BETA/b.xlsx": 77,
	}, versions)
}

func TestFileVersionsEmptyWarehouse(t *testing.T) {
	store := NewFactStore(setupTestDB(t))

	versions, err := store.FileVersions()
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestDeactivateFiles(t *testing.T) {
	db := setupTestDB(t)
	store := NewFactStore(db)

	require.NoError(t, store.ReplaceFile("ACME/x.xlsx", []schema.MediaPlanFact{factRow("ACME/x.xlsx", 1, "X")}))
	require.NoError(t, store.ReplaceFile("ACME/y.xlsx", []schema.MediaPlanFact{factRow("ACME/y.xlsx", 1, "Y")}))

	require.NoError(t, store.DeactivateFiles([]string{"ACME/y.xlsx"}))

	active, err := store.ActiveSourceFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME/x.xlsx"}, active)

	var inactive int64
	require.NoError(t, db.Model(&schema.MediaPlanFact{}).
		Where("source_file = ? AND is_active = ?", "ACME/y.xlsx", false).
		Count(&inactive).Error)
	assert.Equal(t, int64(1), inactive)
}

func TestDeactivateNothing(t *testing.T) {
	store := NewFactStore(setupTestDB(t))
	assert.NoError(t, store.DeactivateFiles(nil))
}
