package session

import (
	"fmt"
	"sort"

	"github.com/jaspervw/fastrec/internal/domain"
)

// Snapshot is the persistable state of a session: the raw answers, the
// questions passed over, which rules have fired, and the derived
// requirements. Storing the requirements alongside the facts lets a
// restore reproduce the exact task state without re-running inference.
type Snapshot struct {
	ID           string               `json:"id"`
	Facts        map[string]any       `json:"facts"`
	Skipped      []string             `json:"skipped,omitempty"`
	FiredRules   []string             `json:"fired_rules"`
	Requirements RequirementsSnapshot `json:"requirements"`
}

// RequirementsSnapshot is the serialized form of the derived
// requirements. Sets are stored as sorted slices for stable output.
type RequirementsSnapshot struct {
	MinTensileStrength string `json:"min_tensile_strength"`
	MinShearStrength   string `json:"min_shear_strength"`

	MinWaterResistance       string `json:"min_water_resistance"`
	MinTemperatureResistance string `json:"min_temperature_resistance"`
	MinUVResistance          string `json:"min_uv_resistance"`
	MinVibrationResistance   string `json:"min_vibration_resistance"`
	MinChemicalResistance    string `json:"min_chemical_resistance"`

	AllowedRigidities  []string `json:"allowed_rigidities,omitempty"`
	AllowedPermanences []string `json:"allowed_permanences,omitempty"`
	AllowedCategories  []string `json:"allowed_categories,omitempty"`
	ExcludedCategories []string `json:"excluded_categories,omitempty"`
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	var skipped []string
	for id := range s.asked {
		if _, answered := s.facts[id]; !answered {
			skipped = append(skipped, id)
		}
	}
	sort.Strings(skipped)

	req := s.task.Requirements
	return Snapshot{
		ID:         s.ID,
		Facts:      s.Facts(),
		Skipped:    skipped,
		FiredRules: s.engine.Fired(),
		Requirements: RequirementsSnapshot{
			MinTensileStrength:       string(req.MinTensileStrength),
			MinShearStrength:         string(req.MinShearStrength),
			MinWaterResistance:       string(req.MinWaterResistance),
			MinTemperatureResistance: string(req.MinTemperatureResistance),
			MinUVResistance:          string(req.MinUVResistance),
			MinVibrationResistance:   string(req.MinVibrationResistance),
			MinChemicalResistance:    string(req.MinChemicalResistance),
			AllowedRigidities:        sortedKeys(req.AllowedRigidities),
			AllowedPermanences:       sortedKeys(req.AllowedPermanences),
			AllowedCategories:        sortedKeys(req.AllowedCategories),
			ExcludedCategories:       sortedKeys(req.ExcludedCategories),
		},
	}
}

// Restore rebuilds a session from a snapshot: answers are replayed to
// reconstruct the task attributes and material enrichment, the firing
// state is restored, and the derived requirements are taken from the
// snapshot verbatim rather than re-derived.
func Restore(cat *Catalog, snap Snapshot) (*Session, error) {
	s := New(cat)
	if snap.ID != "" {
		s.ID = snap.ID
	}

	for id, v := range snap.Facts {
		if err := s.Answer(id, v); err != nil {
			return nil, fmt.Errorf("restoring session %s: %w", snap.ID, err)
		}
	}
	for _, id := range snap.Skipped {
		if err := s.Skip(id); err != nil {
			return nil, fmt.Errorf("restoring session %s: %w", snap.ID, err)
		}
	}
	s.engine.RestoreFired(snap.FiredRules)

	req, err := snap.Requirements.toDomain()
	if err != nil {
		return nil, fmt.Errorf("restoring session %s: %w", snap.ID, err)
	}
	s.task.Requirements = req

	return s, nil
}

func (r RequirementsSnapshot) toDomain() (domain.DerivedRequirements, error) {
	var out domain.DerivedRequirements
	var err error

	if out.MinTensileStrength, err = domain.ParseStrength(r.MinTensileStrength); err != nil {
		return out, err
	}
	if out.MinShearStrength, err = domain.ParseStrength(r.MinShearStrength); err != nil {
		return out, err
	}
	if out.MinWaterResistance, err = domain.ParseResistance(r.MinWaterResistance); err != nil {
		return out, err
	}
	if out.MinTemperatureResistance, err = domain.ParseResistance(r.MinTemperatureResistance); err != nil {
		return out, err
	}
	if out.MinUVResistance, err = domain.ParseResistance(r.MinUVResistance); err != nil {
		return out, err
	}
	if out.MinVibrationResistance, err = domain.ParseResistance(r.MinVibrationResistance); err != nil {
		return out, err
	}
	if out.MinChemicalResistance, err = domain.ParseResistance(r.MinChemicalResistance); err != nil {
		return out, err
	}

	out.AllowedRigidities = make(map[domain.Rigidity]bool)
	for _, v := range r.AllowedRigidities {
		rg, err := domain.ParseRigidity(v)
		if err != nil {
			return out, err
		}
		out.AllowedRigidities[rg] = true
	}
	out.AllowedPermanences = make(map[domain.Permanence]bool)
	for _, v := range r.AllowedPermanences {
		p, err := domain.ParsePermanence(v)
		if err != nil {
			return out, err
		}
		out.AllowedPermanences[p] = true
	}
	out.AllowedCategories = make(map[domain.Category]bool)
	for _, v := range r.AllowedCategories {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return out, err
		}
		out.AllowedCategories[c] = true
	}
	out.ExcludedCategories = make(map[domain.Category]bool)
	for _, v := range r.ExcludedCategories {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return out, err
		}
		out.ExcludedCategories[c] = true
	}

	return out, nil
}

func sortedKeys[T ~string](m map[T]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
