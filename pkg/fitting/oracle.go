package fitting

import "strconv"

// DogmaAttribute is the static metadata describing a dogma attribute: its
// fallback value, sort preference for assignment ties, and whether it is
// exempt from stacking penalties.
type DogmaAttribute struct {
	DefaultValue float64
	HighIsGood   bool
	Stackable    bool
	Name         string
}

// TypeAttribute is one (attributeID, value) pair installed on a type.
type TypeAttribute struct {
	AttributeID int
	Value       float64
}

// TypeEffect references one dogma effect a type carries.
type TypeEffect struct {
	EffectID  int
	IsDefault bool
}

// ModifierFunc is one of the five modifier-kind discriminants.
type ModifierFunc int

const (
	ModifierItem ModifierFunc = iota
	ModifierLocation
	ModifierLocationGroup
	ModifierLocationRequiredSkill
	ModifierOwnerRequiredSkill
	ModifierEffectStopper
)

// ModifierDomain is the raw routing domain carried on a dogma modifier.
type ModifierDomain int

const (
	DomainItemID ModifierDomain = iota
	DomainShipID
	DomainCharID
	DomainOtherID
	DomainStructureID
	DomainTarget
	DomainTargetID
)

// ModifierInfo is a single raw modifier entry as read from an effect's
// modifierInfo blob.
type ModifierInfo struct {
	Domain               ModifierDomain
	Func                 ModifierFunc
	ModifiedAttributeID  int
	ModifyingAttributeID int
	Operation            int
	GroupID              int // valid only for ModifierLocationGroup
	SkillTypeID          int // valid only for the two RequiredSkill funcs; -1 means "this source's own type"
}

// EffectMeta is the static metadata for one dogma effect.
type EffectMeta struct {
	Category     int // raw 0-7 dogma effectCategory, mapped via effectCategoryFromInt
	ModifierInfo []ModifierInfo
}

// TypeMeta is the static metadata for one type (hull, module, charge,
// drone, or skill).
type TypeMeta struct {
	GroupID    int
	CategoryID int
	Mass       *float64
	Capacity   *float64
	Volume     *float64
	Radius     *float64
	Name       string
}

// Oracle is the read-only static-data interface the core consults.
// Implementations must be safe to share across concurrent calculations
// and must answer consistently within a single calculation: static data is
// immutable across a calculation.
type Oracle interface {
	TypeAttributes(typeID int) ([]TypeAttribute, error)
	AttributeMeta(attributeID int) (DogmaAttribute, error)
	TypeEffects(typeID int) ([]TypeEffect, error)
	EffectMeta(effectID int) (EffectMeta, error)
	TypeMeta(typeID int) (TypeMeta, error)
	AttributeNameToID(name string) (int, error)
	TypeNameToID(name string) (int, error)
}

// mustAttributeMeta looks up attribute metadata and panics with an
// InvariantError on failure: by the time pass 2/3 ask for attribute
// metadata, the attribute id came from the static corpus itself (a
// modifier's modifiedAttributeID/modifyingAttributeID), so a missing
// entry is a corrupt corpus, not a recoverable data defect.
func mustAttributeMeta(o Oracle, attributeID int) DogmaAttribute {
	meta, err := o.AttributeMeta(attributeID)
	if err != nil {
		panic(&InvariantError{Msg: "attribute metadata unavailable for attribute " + strconv.Itoa(attributeID) + ": " + err.Error()})
	}
	return meta
}
