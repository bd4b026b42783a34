package fitting

import "errors"

var errNotFound = errors.New("fake oracle: not found")

// fakeOracle is an in-memory Oracle test double: a struct of lookup tables
// rather than a generated/testify mock.
type fakeOracle struct {
	typeAttributes map[int][]TypeAttribute
	attributeMeta  map[int]DogmaAttribute
	typeEffects    map[int][]TypeEffect
	effectMeta     map[int]EffectMeta
	typeMeta       map[int]TypeMeta
	attrNames      map[string]int
	typeNames      map[string]int
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		typeAttributes: map[int][]TypeAttribute{},
		attributeMeta:  map[int]DogmaAttribute{},
		typeEffects:    map[int][]TypeEffect{},
		effectMeta:     map[int]EffectMeta{},
		typeMeta:       map[int]TypeMeta{},
		attrNames:      map[string]int{},
		typeNames:      map[string]int{},
	}
}

func (f *fakeOracle) TypeAttributes(typeID int) ([]TypeAttribute, error) {
	return f.typeAttributes[typeID], nil
}

func (f *fakeOracle) AttributeMeta(attributeID int) (DogmaAttribute, error) {
	meta, ok := f.attributeMeta[attributeID]
	if !ok {
		return DogmaAttribute{}, errNotFound
	}
	return meta, nil
}

func (f *fakeOracle) TypeEffects(typeID int) ([]TypeEffect, error) {
	return f.typeEffects[typeID], nil
}

func (f *fakeOracle) EffectMeta(effectID int) (EffectMeta, error) {
	meta, ok := f.effectMeta[effectID]
	if !ok {
		return EffectMeta{}, errNotFound
	}
	return meta, nil
}

func (f *fakeOracle) TypeMeta(typeID int) (TypeMeta, error) {
	meta, ok := f.typeMeta[typeID]
	if !ok {
		return TypeMeta{}, errNotFound
	}
	return meta, nil
}

func (f *fakeOracle) AttributeNameToID(name string) (int, error) {
	id, ok := f.attrNames[name]
	if !ok {
		return 0, errNotFound
	}
	return id, nil
}

func (f *fakeOracle) TypeNameToID(name string) (int, error) {
	id, ok := f.typeNames[name]
	if !ok {
		return 0, errNotFound
	}
	return id, nil
}

var _ Oracle = (*fakeOracle)(nil)
