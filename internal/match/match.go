// Package match filters the fastener catalog against a task's derived
// requirements. Matching is pure: it never mutates the task and draws
// no conclusions of its own.
package match

import "github.com/jaspervw/fastrec/internal/domain"

// Matches reports whether the fastener satisfies every derived
// requirement of the task. An empty allow set means unrestricted;
// ordinal minimums at the bottom of their scale accept everything.
func Matches(f domain.Fastener, t *domain.Task) bool {
	req := t.Requirements

	if req.ExcludedCategories[f.Category] {
		return false
	}
	if len(req.AllowedCategories) > 0 && !req.AllowedCategories[f.Category] {
		return false
	}
	if len(req.AllowedRigidities) > 0 && !req.AllowedRigidities[f.Rigidity] {
		return false
	}
	if len(req.AllowedPermanences) > 0 && !req.AllowedPermanences[f.Permanence] {
		return false
	}

	if !f.TensileStrength.AtLeast(req.MinTensileStrength) {
		return false
	}
	if !f.ShearStrength.AtLeast(req.MinShearStrength) {
		return false
	}
	if !f.WaterResistance.AtLeast(req.MinWaterResistance) {
		return false
	}
	if !f.TemperatureResistance.AtLeast(req.MinTemperatureResistance) {
		return false
	}
	if !f.UVResistance.AtLeast(req.MinUVResistance) {
		return false
	}
	if !f.VibrationResistance.AtLeast(req.MinVibrationResistance) {
		return false
	}
	if !f.ChemicalResistance.AtLeast(req.MinChemicalResistance) {
		return false
	}

	if t.Constraints.OneSideAccessible && f.RequiresTwoSidedAccess {
		return false
	}

	// Material compatibility is checked against the second surface: the
	// first is what the fastener goes through, the second is what it
	// has to hold in.
	if b := t.Materials.B.Type; b != "" && !f.CompatibleWith(b) {
		return false
	}

	return true
}

// Filter returns the catalog entries that match the task, preserving
// catalog order.
func Filter(fasteners []domain.Fastener, t *domain.Task) []domain.Fastener {
	var out []domain.Fastener
	for _, f := range fasteners {
		if Matches(f, t) {
			out = append(out, f)
		}
	}
	return out
}

// Categories returns the set of categories present among the fasteners.
func Categories(fasteners []domain.Fastener) map[domain.Category]bool {
	out := make(map[domain.Category]bool)
	for _, f := range fasteners {
		out[f.Category] = true
	}
	return out
}
