// Package sqlite implements fitting.Oracle against a read-only copy of
// CCP's Static Data Export: a SQLite conversion of the YAML bundle, with
// the packed dogmaAttributes/dogmaEffects/modifierInfo JSON columns
// decoded directly into fitting's own static-data types.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

// Oracle answers fitting.Oracle queries from a read-only SDE database.
// This is the reference implementation and cmd/api's default backend; the
// postgres oracle is a standalone alternative, and rediscache can decorate
// either.
type Oracle struct {
	db *sql.DB
}

// Open opens a read-only connection to the SDE SQLite file at path.
func Open(path string) (*Oracle, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("sqlite oracle: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite oracle: ping: %w", err)
	}
	return &Oracle{db: db}, nil
}

// Close releases the underlying connection.
func (o *Oracle) Close() error { return o.db.Close() }

func (o *Oracle) TypeAttributes(typeID int) ([]fitting.TypeAttribute, error) {
	var dogmaAttribsJSON sql.NullString
	err := o.db.QueryRow(`SELECT dogmaAttributes FROM typeDogma WHERE _key = ?`, typeID).Scan(&dogmaAttribsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite oracle: TypeAttributes(%d): %w", typeID, err)
	}
	if !dogmaAttribsJSON.Valid || dogmaAttribsJSON.String == "" {
		return nil, nil
	}

	var raw []struct {
		AttributeID int     `json:"attributeID"`
		Value       float64 `json:"value"`
	}
	if err := json.Unmarshal([]byte(dogmaAttribsJSON.String), &raw); err != nil {
		return nil, fmt.Errorf("sqlite oracle: decode dogmaAttributes for %d: %w", typeID, err)
	}

	out := make([]fitting.TypeAttribute, 0, len(raw))
	for _, a := range raw {
		out = append(out, fitting.TypeAttribute{AttributeID: a.AttributeID, Value: a.Value})
	}
	return out, nil
}

func (o *Oracle) AttributeMeta(attributeID int) (fitting.DogmaAttribute, error) {
	var name sql.NullString
	var defaultValue sql.NullFloat64
	var highIsGood, stackable sql.NullBool

	err := o.db.QueryRow(
		`SELECT name, defaultValue, highIsGood, stackable FROM dogmaAttributes WHERE _key = ?`,
		attributeID,
	).Scan(&name, &defaultValue, &highIsGood, &stackable)
	if err != nil {
		return fitting.DogmaAttribute{}, fmt.Errorf("sqlite oracle: AttributeMeta(%d): %w", attributeID, err)
	}

	return fitting.DogmaAttribute{
		DefaultValue: defaultValue.Float64,
		HighIsGood:   highIsGood.Bool,
		Stackable:    stackable.Bool,
		Name:         name.String,
	}, nil
}

func (o *Oracle) TypeEffects(typeID int) ([]fitting.TypeEffect, error) {
	var dogmaEffectsJSON sql.NullString
	err := o.db.QueryRow(`SELECT dogmaEffects FROM typeDogma WHERE _key = ?`, typeID).Scan(&dogmaEffectsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite oracle: TypeEffects(%d): %w", typeID, err)
	}
	if !dogmaEffectsJSON.Valid || dogmaEffectsJSON.String == "" {
		return nil, nil
	}

	var raw []struct {
		EffectID  int  `json:"effectID"`
		IsDefault bool `json:"isDefault"`
	}
	if err := json.Unmarshal([]byte(dogmaEffectsJSON.String), &raw); err != nil {
		return nil, fmt.Errorf("sqlite oracle: decode dogmaEffects for %d: %w", typeID, err)
	}

	out := make([]fitting.TypeEffect, 0, len(raw))
	for _, e := range raw {
		out = append(out, fitting.TypeEffect{EffectID: e.EffectID, IsDefault: e.IsDefault})
	}
	return out, nil
}

func (o *Oracle) EffectMeta(effectID int) (fitting.EffectMeta, error) {
	var category int
	var modifierInfoJSON sql.NullString

	err := o.db.QueryRow(
		`SELECT effectCategory, modifierInfo FROM dogmaEffects WHERE _key = ?`,
		effectID,
	).Scan(&category, &modifierInfoJSON)
	if err != nil {
		return fitting.EffectMeta{}, fmt.Errorf("sqlite oracle: EffectMeta(%d): %w", effectID, err)
	}

	meta := fitting.EffectMeta{Category: category}
	if !modifierInfoJSON.Valid || modifierInfoJSON.String == "" {
		return meta, nil
	}

	var raw []struct {
		Domain               string `json:"domain"`
		Func                 string `json:"func"`
		ModifiedAttributeID  int    `json:"modifiedAttributeID"`
		ModifyingAttributeID int    `json:"modifyingAttributeID"`
		Operation            int    `json:"operation"`
		GroupID              int    `json:"groupID"`
		SkillTypeID          int    `json:"skillTypeID"`
	}
	if err := json.Unmarshal([]byte(modifierInfoJSON.String), &raw); err != nil {
		return fitting.EffectMeta{}, fmt.Errorf("sqlite oracle: decode modifierInfo for %d: %w", effectID, err)
	}

	for _, m := range raw {
		domain, ok := domainFromString(m.Domain)
		if !ok {
			continue
		}
		fn, ok := funcFromString(m.Func)
		if !ok {
			continue
		}
		meta.ModifierInfo = append(meta.ModifierInfo, fitting.ModifierInfo{
			Domain:               domain,
			Func:                 fn,
			ModifiedAttributeID:  m.ModifiedAttributeID,
			ModifyingAttributeID: m.ModifyingAttributeID,
			Operation:            m.Operation,
			GroupID:              m.GroupID,
			SkillTypeID:          m.SkillTypeID,
		})
	}
	return meta, nil
}

func (o *Oracle) TypeMeta(typeID int) (fitting.TypeMeta, error) {
	var name sql.NullString
	var groupID, categoryID sql.NullInt64
	var mass, capacity, volume, radius sql.NullFloat64

	err := o.db.QueryRow(`
		SELECT t.name, t.groupID, g.categoryID, t.mass, t.capacity, t.volume, t.radius
		FROM types t
		LEFT JOIN groups g ON g._key = t.groupID
		WHERE t._key = ?`, typeID,
	).Scan(&name, &groupID, &categoryID, &mass, &capacity, &volume, &radius)
	if err != nil {
		return fitting.TypeMeta{}, fmt.Errorf("sqlite oracle: TypeMeta(%d): %w", typeID, err)
	}

	meta := fitting.TypeMeta{
		GroupID:    int(groupID.Int64),
		CategoryID: int(categoryID.Int64),
		Name:       name.String,
	}
	if mass.Valid {
		v := mass.Float64
		meta.Mass = &v
	}
	if capacity.Valid {
		v := capacity.Float64
		meta.Capacity = &v
	}
	if volume.Valid {
		v := volume.Float64
		meta.Volume = &v
	}
	if radius.Valid {
		v := radius.Float64
		meta.Radius = &v
	}
	return meta, nil
}

func (o *Oracle) AttributeNameToID(name string) (int, error) {
	var id int
	err := o.db.QueryRow(`SELECT _key FROM dogmaAttributes WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sqlite oracle: AttributeNameToID(%q): %w", name, err)
	}
	return id, nil
}

func (o *Oracle) TypeNameToID(name string) (int, error) {
	var id int
	err := o.db.QueryRow(`SELECT _key FROM types WHERE json_extract(name, '$.en') = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sqlite oracle: TypeNameToID(%q): %w", name, err)
	}
	return id, nil
}

func domainFromString(s string) (fitting.ModifierDomain, bool) {
	switch s {
	case "itemID":
		return fitting.DomainItemID, true
	case "shipID":
		return fitting.DomainShipID, true
	case "charID":
		return fitting.DomainCharID, true
	case "otherID":
		return fitting.DomainOtherID, true
	case "structureID":
		return fitting.DomainStructureID, true
	case "target":
		return fitting.DomainTarget, true
	case "targetID":
		return fitting.DomainTargetID, true
	default:
		return 0, false
	}
}

func funcFromString(s string) (fitting.ModifierFunc, bool) {
	switch s {
	case "ItemModifier":
		return fitting.ModifierItem, true
	case "LocationModifier":
		return fitting.ModifierLocation, true
	case "LocationGroupModifier":
		return fitting.ModifierLocationGroup, true
	case "LocationRequiredSkillModifier":
		return fitting.ModifierLocationRequiredSkill, true
	case "OwnerRequiredSkillModifier":
		return fitting.ModifierOwnerRequiredSkill, true
	case "EffectStopper":
		return fitting.ModifierEffectStopper, true
	default:
		return 0, false
	}
}

var _ fitting.Oracle = (*Oracle)(nil)
