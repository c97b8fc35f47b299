package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
)

func compileAll(t *testing.T, specs []kb.RuleSpec) []*Rule {
	t.Helper()
	rules, err := Compile(specs, domain.NewSchema())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return rules
}

func TestCompileRejectsBadSpecs(t *testing.T) {
	schema := domain.NewSchema()

	tests := []struct {
		name string
		spec kb.RuleSpec
	}{
		{
			"unknown condition path",
			kb.RuleSpec{ID: "r", Conditions: map[string]any{"load.torque": true},
				Effects: map[string]any{"requirements.min_shear_strength": "high"}},
		},
		{
			"unknown effect path",
			kb.RuleSpec{ID: "r", Conditions: map[string]any{"load.vibration": true},
				Effects: map[string]any{"requirements.min_torque": "high"}},
		},
		{
			"invalid ordinal symbol",
			kb.RuleSpec{ID: "r", Conditions: map[string]any{"load.vibration": true},
				Effects: map[string]any{"requirements.min_shear_strength": "strongish"}},
		},
		{
			"invalid set member",
			kb.RuleSpec{ID: "r", Conditions: map[string]any{"load.vibration": true},
				Effects: map[string]any{"requirements.excluded_categories": "magnetic"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile([]kb.RuleSpec{tt.spec}, schema); err == nil {
				t.Error("Compile expected error, got nil")
			}
		})
	}
}

func TestEngineFiresMatchingRule(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "vibration_resistance",
		Conditions: map[string]any{"load.vibration": true},
		Effects: map[string]any{
			"requirements.min_vibration_resistance": "good",
			"requirements.excluded_categories":      "adhesive",
		},
	}})

	task := domain.NewTask()
	task.Load.Vibration = true

	e := NewEngine(rules, nil)
	fired, err := e.Infer(task)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if diff := cmp.Diff([]string{"vibration_resistance"}, fired); diff != "" {
		t.Errorf("fired rules mismatch (-want +got):\n%s", diff)
	}
	if task.Requirements.MinVibrationResistance != domain.ResistanceGood {
		t.Errorf("min vibration resistance = %s, want good", task.Requirements.MinVibrationResistance)
	}
	if !task.Requirements.ExcludedCategories[domain.CategoryAdhesive] {
		t.Error("adhesive not excluded")
	}
}

func TestEngineFiresAtMostOncePerSession(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "once",
		Conditions: map[string]any{"load.vibration": true},
		Effects:    map[string]any{"requirements.min_vibration_resistance": "good"},
	}})

	task := domain.NewTask()
	task.Load.Vibration = true
	e := NewEngine(rules, nil)

	if fired, _ := e.Infer(task); len(fired) != 1 {
		t.Fatalf("first Infer fired %d rules, want 1", len(fired))
	}
	if fired, _ := e.Infer(task); len(fired) != 0 {
		t.Errorf("second Infer fired %d rules, want 0", len(fired))
	}
}

func TestEngineChainsAcrossPasses(t *testing.T) {
	// The second rule only matches after the first has raised the
	// required strength, and it is listed first to force a second pass.
	rules := compileAll(t, []kb.RuleSpec{
		{
			ID:         "strength_to_minimums",
			Conditions: map[string]any{"load.required_strength": []any{"high", "very_high"}},
			Effects: map[string]any{
				"requirements.min_tensile_strength": "high",
				"requirements.min_shear_strength":   "high",
			},
		},
		{
			ID:         "heavy_dynamic_raises_strength",
			Conditions: map[string]any{"load.load_type": "heavy_dynamic"},
			Effects:    map[string]any{"load.required_strength": "high"},
		},
	})

	task := domain.NewTask()
	task.Load.LoadType = domain.LoadHeavyDynamic

	e := NewEngine(rules, nil)
	fired, err := e.Infer(task)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	want := []string{"heavy_dynamic_raises_strength", "strength_to_minimums"}
	if diff := cmp.Diff(want, fired); diff != "" {
		t.Errorf("firing order mismatch (-want +got):\n%s", diff)
	}
	if task.Requirements.MinTensileStrength != domain.StrengthHigh {
		t.Errorf("min tensile = %s, want high", task.Requirements.MinTensileStrength)
	}
}

func TestOrdinalEffectsNeverLower(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "weaker_requirement",
		Conditions: map[string]any{"environment.moisture": "splash"},
		Effects:    map[string]any{"requirements.min_water_resistance": "fair"},
	}})

	task := domain.NewTask()
	task.Environment.Moisture = domain.MoistureSplash
	task.Requirements.MinWaterResistance = domain.ResistanceExcellent

	e := NewEngine(rules, nil)
	if _, err := e.Infer(task); err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if task.Requirements.MinWaterResistance != domain.ResistanceExcellent {
		t.Errorf("min water resistance lowered to %s", task.Requirements.MinWaterResistance)
	}
}

func TestAnyQuantifierMatchesEitherSlot(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "brittle_excludes_mechanical",
		Conditions: map[string]any{"materials.any.brittleness": []any{"high", "very_high"}},
		Effects:    map[string]any{"requirements.excluded_categories": "mechanical"},
	}})

	tests := []struct {
		name     string
		a, b     string
		wantFire bool
	}{
		{"first slot brittle", "very_high", "low", true},
		{"second slot brittle", "low", "high", true},
		{"neither brittle", "low", "moderate", false},
		{"slots unknown", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := domain.NewTask()
			task.Materials.A.Brittleness = tt.a
			task.Materials.B.Brittleness = tt.b

			e := NewEngine(rules, nil)
			fired, err := e.Infer(task)
			if err != nil {
				t.Fatalf("Infer: %v", err)
			}
			if (len(fired) == 1) != tt.wantFire {
				t.Errorf("fired = %v, want firing %v", fired, tt.wantFire)
			}
		})
	}
}

func TestEngineCloneIsolatesFiringState(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "r",
		Conditions: map[string]any{"load.vibration": true},
		Effects:    map[string]any{"requirements.min_vibration_resistance": "good"},
	}})

	e := NewEngine(rules, nil)
	c := e.Clone()

	task := domain.NewTask()
	task.Load.Vibration = true
	if _, err := c.Infer(task); err != nil {
		t.Fatalf("Infer on clone: %v", err)
	}

	if len(e.Fired()) != 0 {
		t.Errorf("clone inference leaked into original: %v", e.Fired())
	}
	if diff := cmp.Diff([]string{"r"}, c.Fired()); diff != "" {
		t.Errorf("clone fired mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreFiredSkipsUnknownIDs(t *testing.T) {
	rules := compileAll(t, []kb.RuleSpec{{
		ID:         "known",
		Conditions: map[string]any{"load.vibration": true},
		Effects:    map[string]any{"requirements.min_vibration_resistance": "good"},
	}})

	e := NewEngine(rules, nil)
	e.RestoreFired([]string{"known", "retired_rule"})

	if diff := cmp.Diff([]string{"known"}, e.Fired()); diff != "" {
		t.Errorf("restored firing state mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchFacts(t *testing.T) {
	facts := map[string]any{
		"environment_moisture": "outdoor",
		"vibration":            true,
		"load_type":            "heavy_dynamic",
	}

	tests := []struct {
		name       string
		conditions map[string]any
		want       bool
	}{
		{"exact match", map[string]any{"environment_moisture": "outdoor"}, true},
		{"list membership", map[string]any{"environment_moisture": []any{"outdoor", "submerged"}}, true},
		{"boolean fact", map[string]any{"vibration": true}, true},
		{"all must hold", map[string]any{"vibration": true, "load_type": "static"}, false},
		{"missing fact", map[string]any{"health_constraints": true}, false},
		{"empty conditions hold", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchFacts(tt.conditions, facts); got != tt.want {
				t.Errorf("MatchFacts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConclusionEngineOrdersByPriority(t *testing.T) {
	e := NewConclusionEngine([]FactRule{
		{ID: "low", Priority: 10, Conditions: map[string]any{"vibration": true},
			Conclusions: []string{"check fastener torque regularly"}},
		{ID: "high", Priority: 90, Conditions: map[string]any{"vibration": true},
			Conclusions: []string{"use lock washers"}},
		{ID: "unmatched", Priority: 50, Conditions: map[string]any{"vibration": false},
			Conclusions: []string{"never emitted"}},
	})

	got := e.Run(map[string]any{"vibration": true})
	want := []string{"use lock washers", "check fastener torque regularly"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conclusions mismatch (-want +got):\n%s", diff)
	}
}
