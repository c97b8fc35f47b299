package domain

import "fmt"

// --- Path schema registry ---
//
// Rules and questions address Task fields by dotted path
// (e.g. "environment.moisture"). Rather than resolving paths through
// reflection at evaluation time, the full registry of valid paths is
// built once, with a typed getter/setter closure and a static field
// kind per path. Invalid paths in a knowledge base are therefore
// caught when the knowledge base is loaded, not at first use.
//
// The reserved "any" segment quantifies over the two material slots:
// "materials.any.brittleness" reads the brittleness of both sides and
// returns the pair, which condition evaluation treats as
// "at least one side matches".

// FieldKind tags how effect values combine on a field. The tag is
// declared here, per path, and never inferred from the runtime type of
// the field's current value.
type FieldKind int

const (
	// KindString is a plain symbolic scalar: effects assign.
	KindString FieldKind = iota
	// KindBool is a boolean scalar: effects assign.
	KindBool
	// KindStrength is an ordinal on the strength scale: effects apply
	// a monotonic maximum.
	KindStrength
	// KindResistance is an ordinal on the resistance scale: effects
	// apply a monotonic maximum.
	KindResistance
	// KindRigiditySet, KindPermanenceSet and KindCategorySet are grow-only
	// sets: effects union.
	KindRigiditySet
	KindPermanenceSet
	KindCategorySet
)

// Field is one addressable Task attribute: a getter, an optional setter,
// and the field's declared kind. Quantified ("any") and computed paths
// are read-only and carry a nil Set.
type Field struct {
	Path string
	Kind FieldKind
	Get  func(*Task) any
	Set  func(*Task, any) error
}

// Settable reports whether the path may appear in a rule effect or as a
// question's target attribute.
func (f Field) Settable() bool { return f.Set != nil }

// Schema is the registry of all addressable Task paths.
type Schema map[string]Field

// Field looks up a path, returning an error for paths the Task shape
// does not have. An unknown path is a configuration error in the
// knowledge base, never a runtime data problem.
func (s Schema) Field(path string) (Field, error) {
	f, ok := s[path]
	if !ok {
		return Field{}, fmt.Errorf("unknown attribute path %q", path)
	}
	return f, nil
}

// NewSchema builds the registry for the Task shape. It is cheap enough
// to build per catalog load and is immutable afterwards.
func NewSchema() Schema {
	s := Schema{}

	add := func(path string, kind FieldKind, get func(*Task) any, set func(*Task, any) error) {
		s[path] = Field{Path: path, Kind: kind, Get: get, Set: set}
	}

	// Material slots. The "any" variants enumerate both sides.
	materialPaths(s, "materials.material_a", func(t *Task) *Material { return &t.Materials.A })
	materialPaths(s, "materials.material_b", func(t *Task) *Material { return &t.Materials.B })
	for _, attr := range []string{"material_type", "porosity", "brittleness", "base_strength"} {
		a, b := s["materials.material_a."+attr], s["materials.material_b."+attr]
		add("materials.any."+attr, a.Kind, func(t *Task) any {
			return []any{a.Get(t), b.Get(t)}
		}, nil)
	}

	// Computed pair attribute.
	add("materials.same_material", KindBool, func(t *Task) any {
		return t.Materials.SameMaterial()
	}, nil)

	// Environment.
	add("environment.moisture", KindString,
		func(t *Task) any { return string(t.Environment.Moisture) },
		func(t *Task, v any) error {
			m, err := ParseMoistureExposure(toString(v))
			if err != nil {
				return err
			}
			t.Environment.Moisture = m
			return nil
		})
	addBool(s, "environment.chemical_exposure",
		func(t *Task) *bool { return &t.Environment.ChemicalExposure })
	addBool(s, "environment.uv_exposure",
		func(t *Task) *bool { return &t.Environment.UVExposure })
	addBool(s, "environment.temperature_extremes",
		func(t *Task) *bool { return &t.Environment.TemperatureExtremes })

	// Load.
	add("load.load_type", KindString,
		func(t *Task) any { return string(t.Load.LoadType) },
		func(t *Task, v any) error {
			l, err := ParseLoadType(toString(v))
			if err != nil {
				return err
			}
			t.Load.LoadType = l
			return nil
		})
	addBool(s, "load.vibration", func(t *Task) *bool { return &t.Load.Vibration })
	addBool(s, "load.tension_dominant", func(t *Task) *bool { return &t.Load.TensionDominant })
	addBool(s, "load.shock_loads", func(t *Task) *bool { return &t.Load.ShockLoads })
	addStrength(s, "load.required_strength",
		func(t *Task) *StrengthLevel { return &t.Load.RequiredStrength })

	// Usage constraints.
	add("constraints.permanence", KindString,
		func(t *Task) any { return string(t.Constraints.Permanence) },
		func(t *Task, v any) error {
			p, err := ParsePermanence(toString(v))
			if err != nil {
				return err
			}
			t.Constraints.Permanence = p
			return nil
		})
	addBool(s, "constraints.flexibility_required",
		func(t *Task) *bool { return &t.Constraints.FlexibilityRequired })
	addBool(s, "constraints.orientation_vertical",
		func(t *Task) *bool { return &t.Constraints.OrientationVertical })
	addBool(s, "constraints.health_constraints",
		func(t *Task) *bool { return &t.Constraints.HealthConstraints })
	addBool(s, "constraints.one_side_accessible",
		func(t *Task) *bool { return &t.Constraints.OneSideAccessible })
	add("constraints.max_curing_time", KindString,
		func(t *Task) any { return t.Constraints.MaxCuringTime },
		func(t *Task, v any) error {
			t.Constraints.MaxCuringTime = toString(v)
			return nil
		})

	// Derived requirements: ordinal minimums.
	addStrength(s, "requirements.min_tensile_strength",
		func(t *Task) *StrengthLevel { return &t.Requirements.MinTensileStrength })
	addStrength(s, "requirements.min_shear_strength",
		func(t *Task) *StrengthLevel { return &t.Requirements.MinShearStrength })
	addResistance(s, "requirements.min_water_resistance",
		func(t *Task) *ResistanceLevel { return &t.Requirements.MinWaterResistance })
	addResistance(s, "requirements.min_temperature_resistance",
		func(t *Task) *ResistanceLevel { return &t.Requirements.MinTemperatureResistance })
	addResistance(s, "requirements.min_uv_resistance",
		func(t *Task) *ResistanceLevel { return &t.Requirements.MinUVResistance })
	addResistance(s, "requirements.min_vibration_resistance",
		func(t *Task) *ResistanceLevel { return &t.Requirements.MinVibrationResistance })
	addResistance(s, "requirements.min_chemical_resistance",
		func(t *Task) *ResistanceLevel { return &t.Requirements.MinChemicalResistance })

	// Derived requirements: grow-only sets.
	add("requirements.allowed_rigidities", KindRigiditySet,
		func(t *Task) any { return setValues(t.Requirements.AllowedRigidities) },
		func(t *Task, v any) error {
			return unionInto(v, func(s string) error {
				r, err := ParseRigidity(s)
				if err != nil {
					return err
				}
				t.Requirements.AllowedRigidities[r] = true
				return nil
			})
		})
	add("requirements.allowed_permanences", KindPermanenceSet,
		func(t *Task) any { return setValues(t.Requirements.AllowedPermanences) },
		func(t *Task, v any) error {
			return unionInto(v, func(s string) error {
				p, err := ParsePermanence(s)
				if err != nil {
					return err
				}
				t.Requirements.AllowedPermanences[p] = true
				return nil
			})
		})
	add("requirements.allowed_categories", KindCategorySet,
		func(t *Task) any { return setValues(t.Requirements.AllowedCategories) },
		func(t *Task, v any) error {
			return unionInto(v, func(s string) error {
				c, err := ParseCategory(s)
				if err != nil {
					return err
				}
				t.Requirements.AllowedCategories[c] = true
				return nil
			})
		})
	add("requirements.excluded_categories", KindCategorySet,
		func(t *Task) any { return setValues(t.Requirements.ExcludedCategories) },
		func(t *Task, v any) error {
			return unionInto(v, func(s string) error {
				c, err := ParseCategory(s)
				if err != nil {
					return err
				}
				t.Requirements.ExcludedCategories[c] = true
				return nil
			})
		})

	return s
}

// materialPaths registers the four attributes of one material slot.
func materialPaths(s Schema, prefix string, slot func(*Task) *Material) {
	s[prefix+".material_type"] = Field{
		Path: prefix + ".material_type",
		Kind: KindString,
		Get:  func(t *Task) any { return string(slot(t).Type) },
		Set: func(t *Task, v any) error {
			m, err := ParseMaterialType(toString(v))
			if err != nil {
				return err
			}
			slot(t).Type = m
			return nil
		},
	}
	s[prefix+".porosity"] = Field{
		Path: prefix + ".porosity",
		Kind: KindString,
		Get:  func(t *Task) any { return slot(t).Porosity },
		Set: func(t *Task, v any) error {
			slot(t).Porosity = toString(v)
			return nil
		},
	}
	s[prefix+".brittleness"] = Field{
		Path: prefix + ".brittleness",
		Kind: KindString,
		Get:  func(t *Task) any { return slot(t).Brittleness },
		Set: func(t *Task, v any) error {
			slot(t).Brittleness = toString(v)
			return nil
		},
	}
	s[prefix+".base_strength"] = Field{
		Path: prefix + ".base_strength",
		Kind: KindStrength,
		Get:  func(t *Task) any { return string(slot(t).BaseStrength) },
		Set: func(t *Task, v any) error {
			l, err := ParseStrength(toString(v))
			if err != nil {
				return err
			}
			slot(t).BaseStrength = l
			return nil
		},
	}
}

func addBool(s Schema, path string, ptr func(*Task) *bool) {
	s[path] = Field{
		Path: path,
		Kind: KindBool,
		Get:  func(t *Task) any { return *ptr(t) },
		Set: func(t *Task, v any) error {
			b, err := toBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			*ptr(t) = b
			return nil
		},
	}
}

func addStrength(s Schema, path string, ptr func(*Task) *StrengthLevel) {
	s[path] = Field{
		Path: path,
		Kind: KindStrength,
		Get:  func(t *Task) any { return string(*ptr(t)) },
		Set: func(t *Task, v any) error {
			l, err := ParseStrength(toString(v))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			*ptr(t) = l
			return nil
		},
	}
}

func addResistance(s Schema, path string, ptr func(*Task) *ResistanceLevel) {
	s[path] = Field{
		Path: path,
		Kind: KindResistance,
		Get:  func(t *Task) any { return string(*ptr(t)) },
		Set: func(t *Task, v any) error {
			l, err := ParseResistance(toString(v))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			*ptr(t) = l
			return nil
		},
	}
}

// unionInto feeds every element of v (a scalar or a list) to insert.
func unionInto(v any, insert func(string) error) error {
	if list, ok := v.([]any); ok {
		for _, e := range list {
			if err := insert(toString(e)); err != nil {
				return err
			}
		}
		return nil
	}
	return insert(toString(v))
}

// setValues returns the members of a set field as a plain slice, for
// condition evaluation and snapshots.
func setValues[T ~string](m map[T]bool) []any {
	out := make([]any, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	return out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if b == "true" || b == "yes" {
			return true, nil
		}
		if b == "false" || b == "no" {
			return false, nil
		}
	}
	return false, fmt.Errorf("invalid boolean value %v", v)
}
