package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planhouse/planhouse/internal/db/schema"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, schema.AutoMigrate(db))
	return db
}

func TestCreateReturnsID(t *testing.T) {
	store := NewDimensionStore(setupTestDB(t))

	id, err := store.Create(schema.KindExhibitor, "CINEMARK", nil)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
}

func TestCreateDuplicateKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	store := NewDimensionStore(db)

	first, err := store.Create(schema.KindExhibitor, "CINEMARK", nil)
	require.NoError(t, err)
	second, err := store.Create(schema.KindExhibitor, "CINEMARK", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var n int64
	require.NoError(t, db.Model(&schema.Exhibitor{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLookupNotFoundIsNotAnError(t *testing.T) {
	store := NewDimensionStore(setupTestDB(t))

	_, found, err := store.Lookup(schema.KindCampaign, "NOPE")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateMediaCarriesClassificationLink(t *testing.T) {
	db := setupTestDB(t)
	store := NewDimensionStore(db)

	classID, err := store.Create(schema.KindClassification, "OOH", nil)
	require.NoError(t, err)

	mediaID, err := store.Create(schema.KindMedia, "DIGITAL TOTEM", &classID)
	require.NoError(t, err)

	var media schema.Media
	require.NoError(t, db.First(&media, mediaID).Error)
	require.NotNil(t, media.ClassificationID)
	assert.Equal(t, classID, *media.ClassificationID)
}

func TestCreateMediaWithoutLink(t *testing.T) {
	db := setupTestDB(t)
	store := NewDimensionStore(db)

	mediaID, err := store.Create(schema.KindMedia, "BACKLIGHT", nil)
	require.NoError(t, err)

	var media schema.Media
	require.NoError(t, db.First(&media, mediaID).Error)
	assert.Nil(t, media.ClassificationID)
}

func TestSaveAliasNeverRemaps(t *testing.T) {
	db := setupTestDB(t)
	store := NewDimensionStore(db)

	a, err := store.Create(schema.KindExhibitor, "CINEMARK", nil)
	require.NoError(t, err)
	b, err := store.Create(schema.KindExhibitor, "KINOPLEX", nil)
	require.NoError(t, err)

	require.NoError(t, store.SaveAlias(schema.KindExhibitor, "CINEMARK SA", a))
	// A second write for the same spelling must not move it.
	require.NoError(t, store.SaveAlias(schema.KindExhibitor, "CINEMARK SA", b))

	aliases, err := store.ListAliases(schema.KindExhibitor)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, a, aliases[0].DimensionID)
}

func TestSaveAliasRejectsExactMatchKinds(t *testing.T) {
	store := NewDimensionStore(setupTestDB(t))
	assert.Error(t, store.SaveAlias(schema.KindClassification, "X", 1))
}

func TestListReturnsAllRows(t *testing.T) {
	store := NewDimensionStore(setupTestDB(t))

	_, err := store.Create(schema.KindTarget, "AB 25-40", nil)
	require.NoError(t, err)
	_, err = store.Create(schema.KindTarget, "C 18+", nil)
	require.NoError(t, err)

	recs, err := store.List(schema.KindTarget)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
