// Package postgres implements fitting.Oracle against a normalized
// PostgreSQL mirror of the SDE. Where the sqlite oracle reads CCP's JSON
// blobs directly, this oracle expects them pre-normalized into relational
// tables by an offline SDE import job.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

// querier is the subset of *pgxpool.Pool this oracle needs, narrowed to an
// interface ("accept an interface, not *pgxpool.Pool") so tests can
// substitute github.com/pashagolub/pgxmock/v4 for a live connection.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Oracle answers fitting.Oracle queries from PostgreSQL. Every method
// opens its own background context: the fitting.Oracle interface is
// deliberately context-free, so cancellation/timeouts are this adapter's
// own concern, not the core's.
type Oracle struct {
	pool querier
}

// New wraps an already-connected pool (or a pgxmock stand-in for tests).
func New(pool querier) *Oracle {
	return &Oracle{pool: pool}
}

// Connect opens a fresh pool against dsn.
func Connect(ctx context.Context, dsn string) (*Oracle, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres oracle: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres oracle: ping: %w", err)
	}
	return &Oracle{pool: pool}, nil
}

// Close releases the underlying connection. Only a live *pgxpool.Pool
// carries a Close method usable here; pgxmock pools are closed by the
// caller that created them.
func (o *Oracle) Close() {
	if closer, ok := o.pool.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (o *Oracle) TypeAttributes(typeID int) ([]fitting.TypeAttribute, error) {
	ctx := context.Background()
	rows, err := o.pool.Query(ctx,
		`SELECT attribute_id, value FROM type_attributes WHERE type_id = $1`, typeID)
	if err != nil {
		return nil, fmt.Errorf("postgres oracle: TypeAttributes(%d): %w", typeID, err)
	}
	defer rows.Close()

	var out []fitting.TypeAttribute
	for rows.Next() {
		var a fitting.TypeAttribute
		if err := rows.Scan(&a.AttributeID, &a.Value); err != nil {
			return nil, fmt.Errorf("postgres oracle: scan TypeAttributes(%d): %w", typeID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (o *Oracle) AttributeMeta(attributeID int) (fitting.DogmaAttribute, error) {
	ctx := context.Background()
	var meta fitting.DogmaAttribute
	err := o.pool.QueryRow(ctx,
		`SELECT name, default_value, high_is_good, stackable FROM dogma_attributes WHERE attribute_id = $1`,
		attributeID,
	).Scan(&meta.Name, &meta.DefaultValue, &meta.HighIsGood, &meta.Stackable)
	if err != nil {
		return fitting.DogmaAttribute{}, fmt.Errorf("postgres oracle: AttributeMeta(%d): %w", attributeID, err)
	}
	return meta, nil
}

func (o *Oracle) TypeEffects(typeID int) ([]fitting.TypeEffect, error) {
	ctx := context.Background()
	rows, err := o.pool.Query(ctx,
		`SELECT effect_id, is_default FROM type_effects WHERE type_id = $1`, typeID)
	if err != nil {
		return nil, fmt.Errorf("postgres oracle: TypeEffects(%d): %w", typeID, err)
	}
	defer rows.Close()

	var out []fitting.TypeEffect
	for rows.Next() {
		var e fitting.TypeEffect
		if err := rows.Scan(&e.EffectID, &e.IsDefault); err != nil {
			return nil, fmt.Errorf("postgres oracle: scan TypeEffects(%d): %w", typeID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (o *Oracle) EffectMeta(effectID int) (fitting.EffectMeta, error) {
	ctx := context.Background()
	var category int
	var modifierInfoJSON []byte
	err := o.pool.QueryRow(ctx,
		`SELECT category, modifier_info FROM dogma_effects WHERE effect_id = $1`, effectID,
	).Scan(&category, &modifierInfoJSON)
	if err != nil {
		return fitting.EffectMeta{}, fmt.Errorf("postgres oracle: EffectMeta(%d): %w", effectID, err)
	}

	meta := fitting.EffectMeta{Category: category}
	if len(modifierInfoJSON) == 0 {
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
	if err := json.Unmarshal(modifierInfoJSON, &raw); err != nil {
		return fitting.EffectMeta{}, fmt.Errorf("postgres oracle: decode modifier_info for %d: %w", effectID, err)
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
	ctx := context.Background()
	var meta fitting.TypeMeta
	var mass, capacity, volume, radius *float64

	err := o.pool.QueryRow(ctx, `
		SELECT t.name, t.group_id, g.category_id, t.mass, t.capacity, t.volume, t.radius
		FROM types t
		LEFT JOIN groups g ON g.group_id = t.group_id
		WHERE t.type_id = $1`, typeID,
	).Scan(&meta.Name, &meta.GroupID, &meta.CategoryID, &mass, &capacity, &volume, &radius)
	if err != nil {
		return fitting.TypeMeta{}, fmt.Errorf("postgres oracle: TypeMeta(%d): %w", typeID, err)
	}
	meta.Mass, meta.Capacity, meta.Volume, meta.Radius = mass, capacity, volume, radius
	return meta, nil
}

func (o *Oracle) AttributeNameToID(name string) (int, error) {
	ctx := context.Background()
	var id int
	err := o.pool.QueryRow(ctx, `SELECT attribute_id FROM dogma_attributes WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres oracle: AttributeNameToID(%q): %w", name, err)
	}
	return id, nil
}

func (o *Oracle) TypeNameToID(name string) (int, error) {
	ctx := context.Background()
	var id int
	err := o.pool.QueryRow(ctx, `SELECT type_id FROM types WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres oracle: TypeNameToID(%q): %w", name, err)
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
