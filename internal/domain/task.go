package domain

// --- Task sub-descriptors ---

// Material captures intrinsic properties of one surface being joined.
// Type is empty until the corresponding material question is answered;
// the remaining fields are filled from the materials catalog at that
// point.
type Material struct {
	Type         MaterialType
	Porosity     string
	Brittleness  string
	BaseStrength StrengthLevel
}

// MaterialPair holds the two surfaces of a joint. Rules typically reason
// over the relationship between the pair rather than one side alone.
type MaterialPair struct {
	A Material
	B Material
}

// SameMaterial reports whether both sides are of the same material type.
// Unknown (empty) types never count as the same material.
func (p MaterialPair) SameMaterial() bool {
	return p.A.Type != "" && p.A.Type == p.B.Type
}

// Environment describes the conditions the joint is exposed to.
type Environment struct {
	Moisture            MoistureExposure
	ChemicalExposure    bool
	UVExposure          bool
	TemperatureExtremes bool
}

// LoadCondition describes the mechanical loading on the joint.
// RequiredStrength starts at the scale baseline and is typically raised
// by rules during inference.
type LoadCondition struct {
	LoadType         LoadType
	Vibration        bool
	TensionDominant  bool
	ShockLoads       bool
	RequiredStrength StrengthLevel
}

// UsageConstraints holds user-imposed constraints and preferences.
type UsageConstraints struct {
	Permanence          Permanence
	FlexibilityRequired bool
	OrientationVertical bool
	HealthConstraints   bool
	OneSideAccessible   bool
	MaxCuringTime       string
}

// --- Derived knowledge ---

// DerivedRequirements stores requirements inferred during reasoning.
// It is the primary target of rule effects: ordinal minimums are only
// ever raised (monotonic maximum), and the allow/exclude sets only grow.
type DerivedRequirements struct {
	MinTensileStrength StrengthLevel
	MinShearStrength   StrengthLevel

	MinWaterResistance       ResistanceLevel
	MinTemperatureResistance ResistanceLevel
	MinUVResistance          ResistanceLevel
	MinVibrationResistance   ResistanceLevel
	MinChemicalResistance    ResistanceLevel

	AllowedRigidities  map[Rigidity]bool
	AllowedPermanences map[Permanence]bool
	AllowedCategories  map[Category]bool
	ExcludedCategories map[Category]bool
}

// newDerivedRequirements returns the baseline: every ordinal minimum at
// the lowest scale value and every set empty (meaning "no restriction",
// except ExcludedCategories where empty means "nothing excluded").
func newDerivedRequirements() DerivedRequirements {
	return DerivedRequirements{
		MinTensileStrength:       StrengthNone,
		MinShearStrength:         StrengthNone,
		MinWaterResistance:       ResistanceNone,
		MinTemperatureResistance: ResistanceNone,
		MinUVResistance:          ResistanceNone,
		MinVibrationResistance:   ResistanceNone,
		MinChemicalResistance:    ResistanceNone,
		AllowedRigidities:        make(map[Rigidity]bool),
		AllowedPermanences:       make(map[Permanence]bool),
		AllowedCategories:        make(map[Category]bool),
		ExcludedCategories:       make(map[Category]bool),
	}
}

// --- Central domain object ---

// Task represents one concrete fastening problem. It aggregates the raw
// problem description (materials, environment, load, constraints) with
// the requirements derived from it. A Task is owned by exactly one
// session; simulation always works on a Clone, never on the live value.
type Task struct {
	Materials    MaterialPair
	Environment  Environment
	Load         LoadCondition
	Constraints  UsageConstraints
	Requirements DerivedRequirements
}

// NewTask returns a Task at its baseline state: material types unknown,
// neutral environment, static load, semi-permanent constraint defaults,
// and empty derived requirements.
func NewTask() *Task {
	return &Task{
		Environment: Environment{Moisture: MoistureNone},
		Load: LoadCondition{
			LoadType:         LoadStatic,
			RequiredStrength: StrengthNone,
		},
		Constraints: UsageConstraints{
			Permanence: PermanenceSemiPermanent,
		},
		Requirements: newDerivedRequirements(),
	}
}

// Clone returns a deep copy of the task. The copy shares no mutable
// state with the original, so a simulated answer applied to the clone
// can never leak into the live session.
func (t *Task) Clone() *Task {
	c := *t
	c.Requirements.AllowedRigidities = cloneSet(t.Requirements.AllowedRigidities)
	c.Requirements.AllowedPermanences = cloneSet(t.Requirements.AllowedPermanences)
	c.Requirements.AllowedCategories = cloneSet(t.Requirements.AllowedCategories)
	c.Requirements.ExcludedCategories = cloneSet(t.Requirements.ExcludedCategories)
	return &c
}

func cloneSet[T comparable](s map[T]bool) map[T]bool {
	c := make(map[T]bool, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
