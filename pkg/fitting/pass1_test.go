package fitting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPass1SeedsHullAttributes(t *testing.T) {
	o := newFakeOracle()
	o.typeAttributes[648] = []TypeAttribute{{AttributeID: 9, Value: 500}}
	o.typeMeta[648] = TypeMeta{GroupID: 25, CategoryID: 6, Mass: floatPtr(1_000_000)}

	ship := newShip(648, UniformDamageProfile())
	err := pass1(o, ship, Fit{ShipTypeID: 648}, Skills{})
	require.NoError(t, err)

	require.Equal(t, 500.0, ship.Hull.Attributes[9].BaseValue)
	require.Equal(t, 1_000_000.0, ship.Hull.Attributes[attrMass].BaseValue)
}

func TestPass1SeedsSkillsInOrder(t *testing.T) {
	o := newFakeOracle()
	o.typeMeta[648] = TypeMeta{}
	o.typeAttributes[3327] = []TypeAttribute{{AttributeID: 180, Value: 1}}

	ship := newShip(648, UniformDamageProfile())
	skills := NewSkills([2]int{3327, 4})
	err := pass1(o, ship, Fit{ShipTypeID: 648}, skills)
	require.NoError(t, err)

	require.Len(t, ship.Skills, 1)
	require.Equal(t, 3327, ship.Skills[0].TypeID)
	require.Equal(t, 4.0, ship.Skills[0].Attributes[attrSkillLevel].BaseValue)
}

func TestPass1SeedsModuleWithCharge(t *testing.T) {
	o := newFakeOracle()
	o.typeMeta[648] = TypeMeta{}
	o.typeAttributes[2456] = []TypeAttribute{{AttributeID: attrModuleCPU, Value: 10}}
	o.typeAttributes[12608] = []TypeAttribute{{AttributeID: attrVolume, Value: 0.01}}

	fit := Fit{
		ShipTypeID: 648,
		Modules: []ModuleInput{{
			TypeID: 2456,
			Slot:   ModuleSlot{Kind: SlotKindHigh, Index: 0},
			State:  StateActive,
			Charge: &ChargeInput{TypeID: 12608},
		}},
	}

	ship := newShip(648, UniformDamageProfile())
	err := pass1(o, ship, fit, Skills{})
	require.NoError(t, err)

	require.Len(t, ship.Items, 1)
	require.Equal(t, Active, ship.Items[0].State)
	require.NotNil(t, ship.Items[0].Charge)
	require.Equal(t, 12608, ship.Items[0].Charge.TypeID)
}

func TestPass1SeedsPhysicalPropertiesOnEveryItem(t *testing.T) {
	o := newFakeOracle()
	o.typeMeta[648] = TypeMeta{Mass: floatPtr(1_000_000)}
	o.typeMeta[2456] = TypeMeta{Capacity: floatPtr(5)}
	o.typeMeta[12608] = TypeMeta{Volume: floatPtr(0.0125)}
	o.typeMeta[2488] = TypeMeta{Volume: floatPtr(5), Radius: floatPtr(35)}

	fit := Fit{
		ShipTypeID: 648,
		Modules: []ModuleInput{{
			TypeID: 2456,
			Slot:   ModuleSlot{Kind: SlotKindHigh, Index: 0},
			State:  StateActive,
			Charge: &ChargeInput{TypeID: 12608},
		}},
		Drones: []DroneInput{{TypeID: 2488, State: StateActive}},
	}

	ship := newShip(648, UniformDamageProfile())
	err := pass1(o, ship, fit, Skills{})
	require.NoError(t, err)

	require.Equal(t, 5.0, ship.Items[0].Attributes[attrCapacity].BaseValue)
	require.Equal(t, 0.0125, ship.Items[0].Charge.Attributes[attrVolume].BaseValue)
	require.Equal(t, 5.0, ship.Items[1].Attributes[attrVolume].BaseValue)
	require.Equal(t, 35.0, ship.Items[1].Attributes[attrRadius].BaseValue)
}

func floatPtr(v float64) *float64 { return &v }
