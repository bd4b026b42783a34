package postgres

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// These tests use pgxmock: a mocked pgx pool stands in for a live
// PostgreSQL connection so the oracle's query shapes are exercised without
// a database.

func TestOracle_TypeAttributes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"attribute_id", "value"}).
		AddRow(4, 1200000.0).
		AddRow(38, 485.0)
	mock.ExpectQuery("SELECT attribute_id, value FROM type_attributes").
		WithArgs(587).
		WillReturnRows(rows)

	o := New(mock)
	attrs, err := o.TypeAttributes(587)
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	require.Equal(t, 4, attrs[0].AttributeID)
	require.Equal(t, 1200000.0, attrs[0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_AttributeMeta(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"name", "default_value", "high_is_good", "stackable"}).
		AddRow("mass", 0.0, false, true)
	mock.ExpectQuery("SELECT name, default_value, high_is_good, stackable FROM dogma_attributes").
		WithArgs(4).
		WillReturnRows(rows)

	o := New(mock)
	meta, err := o.AttributeMeta(4)
	require.NoError(t, err)
	require.Equal(t, "mass", meta.Name)
	require.True(t, meta.Stackable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_EffectMeta_DecodesModifierInfo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	modifierInfo := []byte(`[{"domain":"itemID","func":"ItemModifier","modifiedAttributeID":9,"modifyingAttributeID":9,"operation":2,"groupID":0,"skillTypeID":0}]`)
	rows := pgxmock.NewRows([]string{"category", "modifier_info"}).AddRow(0, modifierInfo)
	mock.ExpectQuery("SELECT category, modifier_info FROM dogma_effects").
		WithArgs(1).
		WillReturnRows(rows)

	o := New(mock)
	meta, err := o.EffectMeta(1)
	require.NoError(t, err)
	require.Equal(t, 0, meta.Category)
	require.Len(t, meta.ModifierInfo, 1)
	require.Equal(t, 9, meta.ModifierInfo[0].ModifiedAttributeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_TypeMeta_NullableDimensions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"name", "group_id", "category_id", "mass", "capacity", "volume", "radius"}).
		AddRow("Rifter", 25, 6, 1200000.0, nil, 27.29, 39.84)
	mock.ExpectQuery("SELECT t.name, t.group_id").
		WithArgs(587).
		WillReturnRows(rows)

	o := New(mock)
	meta, err := o.TypeMeta(587)
	require.NoError(t, err)
	require.Equal(t, "Rifter", meta.Name)
	require.NotNil(t, meta.Mass)
	require.Equal(t, 1200000.0, *meta.Mass)
	require.Nil(t, meta.Capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOracle_AttributeNameToID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"attribute_id"}).AddRow(4)
	mock.ExpectQuery("SELECT attribute_id FROM dogma_attributes").
		WithArgs("mass").
		WillReturnRows(rows)

	o := New(mock)
	id, err := o.AttributeNameToID("mass")
	require.NoError(t, err)
	require.Equal(t, 4, id)
	require.NoError(t, mock.ExpectationsWereMet())
}
