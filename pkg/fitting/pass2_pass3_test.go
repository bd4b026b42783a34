package fitting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAttrMaxVelocity = 37
	testAttrBoostAmount = 999
	testEffectBoost1    = 9001
	testEffectBoost2    = 9002
	testModuleTypeA     = 200
	testModuleTypeB     = 201
	testShipTypeID      = 648
)

func boostModifier(effectID, moduleTypeID int) EffectMeta {
	return EffectMeta{
		Category: 1, // Active
		ModifierInfo: []ModifierInfo{{
			Domain:               DomainShipID,
			Func:                 ModifierItem,
			ModifiedAttributeID:  testAttrMaxVelocity,
			ModifyingAttributeID: testAttrBoostAmount,
			Operation:            6, // PostPercent
		}},
	}
}

func newVelocityBoostOracle() *fakeOracle {
	o := newFakeOracle()
	o.typeMeta[testShipTypeID] = TypeMeta{CategoryID: 6}
	o.typeAttributes[testShipTypeID] = []TypeAttribute{{AttributeID: testAttrMaxVelocity, Value: 400}}
	o.attributeMeta[testAttrMaxVelocity] = DogmaAttribute{HighIsGood: true, Stackable: false}
	o.attributeMeta[testAttrBoostAmount] = DogmaAttribute{}

	o.typeMeta[testModuleTypeA] = TypeMeta{CategoryID: 7}
	o.typeAttributes[testModuleTypeA] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 10}}
	o.typeEffects[testModuleTypeA] = []TypeEffect{{EffectID: testEffectBoost1}}
	o.effectMeta[testEffectBoost1] = boostModifier(testEffectBoost1, testModuleTypeA)

	o.typeMeta[testModuleTypeB] = TypeMeta{CategoryID: 7}
	o.typeAttributes[testModuleTypeB] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 10}}
	o.typeEffects[testModuleTypeB] = []TypeEffect{{EffectID: testEffectBoost2}}
	o.effectMeta[testEffectBoost2] = boostModifier(testEffectBoost2, testModuleTypeB)

	return o
}

func TestPass2Pass3StackingPenaltyAppliesToSecondModule(t *testing.T) {
	o := newVelocityBoostOracle()
	fit := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
			{TypeID: testModuleTypeB, Slot: ModuleSlot{Kind: SlotKindLow, Index: 1}, State: StateActive},
		},
	}

	ship, err := Calculate(o, fit, Skills{}, UniformDamageProfile())
	require.NoError(t, err)

	// 400 * (1 + 0.10) * (1 + 0.10*0.8691199808) ~= 478.24
	got := *ship.Hull.Attributes[testAttrMaxVelocity].Value
	require.InDelta(t, 478.24, got, 0.01)
}

func TestPass2Pass3SingleModuleNoStackingPenalty(t *testing.T) {
	o := newVelocityBoostOracle()
	fit := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
		},
	}

	ship, err := Calculate(o, fit, Skills{}, UniformDamageProfile())
	require.NoError(t, err)

	got := *ship.Hull.Attributes[testAttrMaxVelocity].Value
	require.InDelta(t, 440.0, got, 0.001)
}

func TestPass2Pass3ThirdModuleDeepensStackingPenalty(t *testing.T) {
	const testModuleTypeC = 202
	const testEffectBoost3 = 9003
	o := newVelocityBoostOracle()
	o.typeMeta[testModuleTypeC] = TypeMeta{CategoryID: 7}
	o.typeAttributes[testModuleTypeC] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 10}}
	o.typeEffects[testModuleTypeC] = []TypeEffect{{EffectID: testEffectBoost3}}
	o.effectMeta[testEffectBoost3] = boostModifier(testEffectBoost3, testModuleTypeC)

	fit := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
			{TypeID: testModuleTypeB, Slot: ModuleSlot{Kind: SlotKindLow, Index: 1}, State: StateActive},
			{TypeID: testModuleTypeC, Slot: ModuleSlot{Kind: SlotKindLow, Index: 2}, State: StateActive},
		},
	}

	ship, err := Calculate(o, fit, Skills{}, UniformDamageProfile())
	require.NoError(t, err)

	// The k-th same-sign penalized bonus counts for penaltyFactor^(k^2):
	// full, ^1, then ^4.
	want := 400.0 *
		(1 + 0.10) *
		(1 + 0.10*penaltyFactor) *
		(1 + 0.10*math.Pow(penaltyFactor, 4))
	got := *ship.Hull.Attributes[testAttrMaxVelocity].Value
	require.InDelta(t, want, got, 1e-9)
}

func TestStackingPenaltyConstant(t *testing.T) {
	require.InDelta(t, math.Exp(-math.Pow(1/2.67, 2)), penaltyFactor, 1e-12)
}

func TestPass2Pass3ModAddOrderIndependent(t *testing.T) {
	newOracle := func() *fakeOracle {
		o := newVelocityBoostOracle()
		for _, e := range []int{testEffectBoost1, testEffectBoost2} {
			meta := o.effectMeta[e]
			meta.ModifierInfo[0].Operation = 2 // ModAdd
			o.effectMeta[e] = meta
		}
		o.typeAttributes[testModuleTypeB] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 25}}
		return o
	}

	forward := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
			{TypeID: testModuleTypeB, Slot: ModuleSlot{Kind: SlotKindLow, Index: 1}, State: StateActive},
		},
	}
	reversed := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeB, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 1}, State: StateActive},
		},
	}

	shipA, err := Calculate(newOracle(), forward, Skills{}, UniformDamageProfile())
	require.NoError(t, err)
	shipB, err := Calculate(newOracle(), reversed, Skills{}, UniformDamageProfile())
	require.NoError(t, err)

	// Additive contributions sum linearly: base + 10 + 25, in either order.
	require.Equal(t, 435.0, *shipA.Hull.Attributes[testAttrMaxVelocity].Value)
	require.Equal(t, *shipA.Hull.Attributes[testAttrMaxVelocity].Value, *shipB.Hull.Attributes[testAttrMaxVelocity].Value)
}

func TestPass3CompetingAssignmentsLowIsGoodPicksSmallestMagnitude(t *testing.T) {
	const testAttrResonance = 998
	o := newFakeOracle()
	o.typeMeta[testShipTypeID] = TypeMeta{CategoryID: 6}
	o.typeAttributes[testShipTypeID] = []TypeAttribute{{AttributeID: testAttrResonance, Value: 1.0}}
	o.attributeMeta[testAttrResonance] = DogmaAttribute{HighIsGood: false, Stackable: true}
	o.attributeMeta[testAttrBoostAmount] = DogmaAttribute{}

	assignEffect := func() EffectMeta {
		return EffectMeta{
			Category: 1,
			ModifierInfo: []ModifierInfo{{
				Domain:               DomainShipID,
				Func:                 ModifierItem,
				ModifiedAttributeID:  testAttrResonance,
				ModifyingAttributeID: testAttrBoostAmount,
				Operation:            7, // PostAssign
			}},
		}
	}

	o.typeMeta[testModuleTypeA] = TypeMeta{CategoryID: 7}
	o.typeAttributes[testModuleTypeA] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 0.7}}
	o.typeEffects[testModuleTypeA] = []TypeEffect{{EffectID: testEffectBoost1}}
	o.effectMeta[testEffectBoost1] = assignEffect()

	o.typeMeta[testModuleTypeB] = TypeMeta{CategoryID: 7}
	o.typeAttributes[testModuleTypeB] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 0.4}}
	o.typeEffects[testModuleTypeB] = []TypeEffect{{EffectID: testEffectBoost2}}
	o.effectMeta[testEffectBoost2] = assignEffect()

	fit := Fit{
		ShipTypeID: testShipTypeID,
		Modules: []ModuleInput{
			{TypeID: testModuleTypeA, Slot: ModuleSlot{Kind: SlotKindLow, Index: 0}, State: StateActive},
			{TypeID: testModuleTypeB, Slot: ModuleSlot{Kind: SlotKindLow, Index: 1}, State: StateActive},
		},
	}

	ship, err := Calculate(o, fit, Skills{}, UniformDamageProfile())
	require.NoError(t, err)

	require.InDelta(t, 0.4, *ship.Hull.Attributes[testAttrResonance].Value, 1e-9,
		"a low-is-good attribute takes the smallest-magnitude competing assignment")
}

func TestPass2RequiredSkillModifierSelfTypeID(t *testing.T) {
	o := newFakeOracle()
	const skillTypeID = 3300
	const droneTypeID = 2000

	o.typeMeta[testShipTypeID] = TypeMeta{CategoryID: 6}
	o.typeMeta[skillTypeID] = TypeMeta{CategoryID: 16}
	o.typeMeta[droneTypeID] = TypeMeta{CategoryID: 18}

	o.typeAttributes[droneTypeID] = []TypeAttribute{
		{AttributeID: attrRequiredSkill1, Value: skillTypeID},
		{AttributeID: testAttrMaxVelocity, Value: 100},
	}
	o.attributeMeta[testAttrMaxVelocity] = DogmaAttribute{HighIsGood: true, Stackable: true}
	o.attributeMeta[testAttrBoostAmount] = DogmaAttribute{}

	o.typeAttributes[skillTypeID] = []TypeAttribute{{AttributeID: testAttrBoostAmount, Value: 5}}
	o.typeEffects[skillTypeID] = []TypeEffect{{EffectID: testEffectBoost1}}
	o.effectMeta[testEffectBoost1] = EffectMeta{
		Category: 0,
		ModifierInfo: []ModifierInfo{{
			Domain:               DomainShipID, // unused by required-skill routing; target resolved by declaresSkill scan
			Func:                 ModifierLocationRequiredSkill,
			ModifiedAttributeID:  testAttrMaxVelocity,
			ModifyingAttributeID: testAttrBoostAmount,
			Operation:            3, // ModSub
			SkillTypeID:          -1,
		}},
	}

	fit := Fit{
		ShipTypeID: testShipTypeID,
		Drones:     []DroneInput{{TypeID: droneTypeID, State: StateActive}},
	}
	skills := NewSkills([2]int{skillTypeID, 4})

	ship, err := Calculate(o, fit, skills, UniformDamageProfile())
	require.NoError(t, err)

	got := *ship.Items[0].Attributes[testAttrMaxVelocity].Value
	require.InDelta(t, 95.0, got, 0.001)
}
