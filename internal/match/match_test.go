package match

import (
	"testing"

	"github.com/jaspervw/fastrec/internal/domain"
)

func bolt() domain.Fastener {
	return domain.Fastener{
		Name:                   "Hex bolt",
		Category:               domain.CategoryMechanical,
		CompatibleMaterials:    []domain.MaterialType{domain.MaterialMetal, domain.MaterialWood},
		TensileStrength:        domain.StrengthVeryHigh,
		ShearStrength:          domain.StrengthVeryHigh,
		WaterResistance:        domain.ResistanceGood,
		TemperatureResistance:  domain.ResistanceExcellent,
		UVResistance:           domain.ResistanceExcellent,
		VibrationResistance:    domain.ResistanceGood,
		ChemicalResistance:     domain.ResistanceGood,
		Rigidity:               domain.RigidityRigid,
		Permanence:             domain.PermanenceRemovable,
		RequiresTwoSidedAccess: true,
	}
}

func TestMatchesOnBaselineTask(t *testing.T) {
	// A fresh task carries no requirements, so everything matches.
	if !Matches(bolt(), domain.NewTask()) {
		t.Error("baseline task rejected a valid fastener")
	}
}

func TestCategoryGates(t *testing.T) {
	f := bolt()

	task := domain.NewTask()
	task.Requirements.ExcludedCategories[domain.CategoryMechanical] = true
	if Matches(f, task) {
		t.Error("excluded category not rejected")
	}

	task = domain.NewTask()
	task.Requirements.AllowedCategories[domain.CategoryAdhesive] = true
	if Matches(f, task) {
		t.Error("category outside allow set not rejected")
	}

	task.Requirements.AllowedCategories[domain.CategoryMechanical] = true
	if !Matches(f, task) {
		t.Error("category inside allow set rejected")
	}
}

func TestOrdinalMinimums(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*domain.Task)
		want  bool
	}{
		{"tensile met", func(t *domain.Task) { t.Requirements.MinTensileStrength = domain.StrengthHigh }, true},
		{"water at boundary", func(t *domain.Task) { t.Requirements.MinWaterResistance = domain.ResistanceGood }, true},
		{"water exceeded", func(t *domain.Task) { t.Requirements.MinWaterResistance = domain.ResistanceExcellent }, false},
		{"vibration exceeded", func(t *domain.Task) { t.Requirements.MinVibrationResistance = domain.ResistanceExcellent }, false},
		{"chemical met", func(t *domain.Task) { t.Requirements.MinChemicalResistance = domain.ResistanceFair }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := domain.NewTask()
			tt.setup(task)
			if got := Matches(bolt(), task); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermanenceAndRigiditySets(t *testing.T) {
	f := bolt()

	task := domain.NewTask()
	task.Requirements.AllowedPermanences[domain.PermanencePermanent] = true
	if Matches(f, task) {
		t.Error("removable fastener accepted against permanent-only set")
	}

	task = domain.NewTask()
	task.Requirements.AllowedRigidities[domain.RigidityFlexible] = true
	task.Requirements.AllowedRigidities[domain.RigiditySemiFlexible] = true
	if Matches(f, task) {
		t.Error("rigid fastener accepted against flexible-only set")
	}
}

func TestOneSidedAccess(t *testing.T) {
	task := domain.NewTask()
	task.Constraints.OneSideAccessible = true
	if Matches(bolt(), task) {
		t.Error("two-sided fastener accepted for one-sided joint")
	}

	rivet := bolt()
	rivet.Name = "Rivet"
	rivet.RequiresTwoSidedAccess = false
	if !Matches(rivet, task) {
		t.Error("blind fastener rejected for one-sided joint")
	}
}

func TestSecondMaterialCompatibility(t *testing.T) {
	f := bolt()

	task := domain.NewTask()
	task.Materials.B.Type = domain.MaterialGlass
	if Matches(f, task) {
		t.Error("incompatible second material not rejected")
	}

	// The first material alone never rejects.
	task = domain.NewTask()
	task.Materials.A.Type = domain.MaterialGlass
	if !Matches(f, task) {
		t.Error("first material must not gate compatibility")
	}

	// Unknown second material does not restrict.
	if !Matches(f, domain.NewTask()) {
		t.Error("unknown second material rejected")
	}
}

func TestFilterPreservesCatalogOrder(t *testing.T) {
	weld := domain.Fastener{
		Name: "Metal welding", Category: domain.CategoryThermal,
		CompatibleMaterials: []domain.MaterialType{domain.MaterialMetal},
		TensileStrength:     domain.StrengthVeryHigh, ShearStrength: domain.StrengthVeryHigh,
		WaterResistance: domain.ResistanceExcellent, TemperatureResistance: domain.ResistanceExcellent,
		UVResistance: domain.ResistanceExcellent, VibrationResistance: domain.ResistanceExcellent,
		ChemicalResistance: domain.ResistanceExcellent,
		Rigidity:           domain.RigidityRigid, Permanence: domain.PermanencePermanent,
	}

	task := domain.NewTask()
	task.Requirements.ExcludedCategories[domain.CategoryThermal] = true

	got := Filter([]domain.Fastener{weld, bolt()}, task)
	if len(got) != 1 || got[0].Name != "Hex bolt" {
		t.Errorf("Filter = %v, want only Hex bolt", got)
	}

	cats := Categories(got)
	if !cats[domain.CategoryMechanical] || len(cats) != 1 {
		t.Errorf("Categories = %v, want mechanical only", cats)
	}
}
