package domain

// Fastener is one candidate fastening method from the catalog.
// Fasteners are immutable once loaded and shared read-only across all
// sessions; the matcher compares their attributes against a Task's
// derived requirements.
type Fastener struct {
	Name                string
	Category            Category
	CompatibleMaterials []MaterialType

	TensileStrength StrengthLevel
	ShearStrength   StrengthLevel

	WaterResistance       ResistanceLevel
	TemperatureResistance ResistanceLevel
	UVResistance          ResistanceLevel
	VibrationResistance   ResistanceLevel
	ChemicalResistance    ResistanceLevel

	Rigidity   Rigidity
	Permanence Permanence

	RequiresTwoSidedAccess bool
}

// CompatibleWith reports whether the fastener's compatible-material list
// contains the given material type.
func (f Fastener) CompatibleWith(m MaterialType) bool {
	for _, c := range f.CompatibleMaterials {
		if c == m {
			return true
		}
	}
	return false
}
