package sqlite

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// newTestOracle builds a throwaway in-memory SDE-shaped database (the same
// typeDogma/dogmaAttributes/dogmaEffects JSON-blob schema CCP ships) so the
// oracle's queries are exercised without a real SDE download.
func newTestOracle(t *testing.T) *Oracle {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE types (_key INTEGER PRIMARY KEY, name TEXT, groupID INTEGER, mass REAL, capacity REAL, volume REAL, radius REAL);
		CREATE TABLE groups (_key INTEGER PRIMARY KEY, categoryID INTEGER);
		CREATE TABLE typeDogma (_key INTEGER PRIMARY KEY, dogmaAttributes TEXT, dogmaEffects TEXT);
		CREATE TABLE dogmaAttributes (_key INTEGER PRIMARY KEY, name TEXT, defaultValue REAL, highIsGood INTEGER, stackable INTEGER);
		CREATE TABLE dogmaEffects (_key INTEGER PRIMARY KEY, effectCategory INTEGER, modifierInfo TEXT);

		INSERT INTO types (_key, name, groupID, mass, capacity, volume, radius)
			VALUES (587, '{"en":"Rifter"}', 25, 1200000, 115, 27.29, 39.84);
		INSERT INTO groups (_key, categoryID) VALUES (25, 6);
		INSERT INTO typeDogma (_key, dogmaAttributes, dogmaEffects) VALUES (587,
			'[{"attributeID":4,"value":1200000},{"attributeID":38,"value":115}]',
			'[{"effectID":1,"isDefault":true}]');
		INSERT INTO dogmaAttributes (_key, name, defaultValue, highIsGood, stackable)
			VALUES (4, 'mass', 0, 0, 1);
		INSERT INTO dogmaEffects (_key, effectCategory, modifierInfo) VALUES (1, 0,
			'[{"domain":"itemID","func":"ItemModifier","modifiedAttributeID":9,"modifyingAttributeID":9,"operation":2,"groupID":0,"skillTypeID":0}]');
	`)
	require.NoError(t, err)

	return &Oracle{db: db}
}

func TestOracle_TypeAttributes(t *testing.T) {
	o := newTestOracle(t)
	attrs, err := o.TypeAttributes(587)
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	require.Equal(t, 4, attrs[0].AttributeID)
	require.Equal(t, 1200000.0, attrs[0].Value)
}

func TestOracle_TypeAttributes_MissingType(t *testing.T) {
	o := newTestOracle(t)
	attrs, err := o.TypeAttributes(99999)
	require.NoError(t, err)
	require.Nil(t, attrs)
}

func TestOracle_AttributeMeta(t *testing.T) {
	o := newTestOracle(t)
	meta, err := o.AttributeMeta(4)
	require.NoError(t, err)
	require.Equal(t, "mass", meta.Name)
	require.True(t, meta.Stackable)
	require.False(t, meta.HighIsGood)
}

func TestOracle_TypeEffects(t *testing.T) {
	o := newTestOracle(t)
	effects, err := o.TypeEffects(587)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	require.Equal(t, 1, effects[0].EffectID)
	require.True(t, effects[0].IsDefault)
}

func TestOracle_EffectMeta_DecodesModifierInfo(t *testing.T) {
	o := newTestOracle(t)
	meta, err := o.EffectMeta(1)
	require.NoError(t, err)
	require.Equal(t, 0, meta.Category)
	require.Len(t, meta.ModifierInfo, 1)
	require.Equal(t, 9, meta.ModifierInfo[0].ModifiedAttributeID)
}

func TestOracle_TypeMeta(t *testing.T) {
	o := newTestOracle(t)
	meta, err := o.TypeMeta(587)
	require.NoError(t, err)
	require.Equal(t, 25, meta.GroupID)
	require.Equal(t, 6, meta.CategoryID)
	require.NotNil(t, meta.Mass)
	require.Equal(t, 1200000.0, *meta.Mass)
}

func TestOracle_AttributeNameToID(t *testing.T) {
	o := newTestOracle(t)
	id, err := o.AttributeNameToID("mass")
	require.NoError(t, err)
	require.Equal(t, 4, id)
}

func TestOracle_TypeNameToID(t *testing.T) {
	o := newTestOracle(t)
	id, err := o.TypeNameToID("Rifter")
	require.NoError(t, err)
	require.Equal(t, 587, id)
}
