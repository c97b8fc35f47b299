package session

import (
	"testing"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
)

// miniCatalog is a small, fully-controlled catalog for selector tests:
// two materials, three fasteners in three categories, one rule that
// makes the vibration question discriminating, and one question that
// cannot discriminate at all.
const miniCatalog = `
mandatory_questions:
  - material_type
  - material_type_2

materials:
  - material_type: wood
    porosity: porous
    brittleness: low
    base_strength: moderate
  - material_type: metal
    porosity: non_porous
    brittleness: low
    base_strength: very_high

questions:
  - id: material_type
    text: "First material?"
    type: choice
    choices: [wood, metal]
    applicable_to: [adhesive, mechanical, thermal]
    attribute: materials.material_a.material_type

  - id: material_type_2
    text: "Second material?"
    type: choice
    choices: [wood, metal]
    applicable_to: [adhesive, mechanical, thermal]
    attribute: materials.material_b.material_type

  - id: load_type
    text: "Load?"
    type: choice
    choices: [static, light_dynamic, heavy_dynamic]
    applicable_to: [adhesive, mechanical, thermal]
    attribute: load.load_type

  - id: vibration
    text: "Vibration?"
    type: boolean
    applicable_to: [adhesive, mechanical]
    attribute: load.vibration
    ask_if:
      load.load_type: [light_dynamic, heavy_dynamic]

  - id: vertical
    text: "Vertical?"
    type: boolean
    applicable_to: [adhesive]
    attribute: constraints.orientation_vertical

rules:
  - id: vibration_rules_out_adhesive
    conditions:
      load.vibration: true
    effects:
      requirements.excluded_categories: adhesive

fasteners:
  - name: Glue
    category: adhesive
    compatible_materials: [wood, metal]
    tensile_strength: moderate
    shear_strength: moderate
    water_resistance: fair
    temperature_resistance: fair
    uv_resistance: fair
    vibration_resistance: poor
    chemical_resistance: fair
    rigidity: flexible
    permanence: semi_permanent

  - name: Screw
    category: mechanical
    compatible_materials: [wood, metal]
    tensile_strength: high
    shear_strength: high
    water_resistance: good
    temperature_resistance: excellent
    uv_resistance: excellent
    vibration_resistance: good
    chemical_resistance: good
    rigidity: rigid
    permanence: removable

  - name: Weld
    category: thermal
    compatible_materials: [metal]
    tensile_strength: very_high
    shear_strength: very_high
    water_resistance: excellent
    temperature_resistance: excellent
    uv_resistance: excellent
    vibration_resistance: excellent
    chemical_resistance: excellent
    rigidity: rigid
    permanence: permanent
`

func newMiniSession(t *testing.T) *Session {
	t.Helper()
	schema := domain.NewSchema()
	k, err := kb.Parse([]byte(miniCatalog), schema)
	if err != nil {
		t.Fatalf("parsing mini catalog: %v", err)
	}
	cat, err := NewCatalog(k, schema, nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return New(cat)
}

func nextQuestionID(t *testing.T, s *Session) string {
	t.Helper()
	q, err := s.SelectNextQuestion()
	if err != nil {
		t.Fatalf("SelectNextQuestion: %v", err)
	}
	if q == nil {
		return ""
	}
	return q.ID
}

func TestMandatoryQuestionsComeFirst(t *testing.T) {
	s := newMiniSession(t)

	if got := nextQuestionID(t, s); got != "material_type" {
		t.Fatalf("first question = %q, want material_type", got)
	}
	if err := s.Answer("material_type", "wood"); err != nil {
		t.Fatal(err)
	}
	if got := nextQuestionID(t, s); got != "material_type_2" {
		t.Fatalf("second question = %q, want material_type_2", got)
	}
}

func TestSelectorPicksDiscriminatingQuestion(t *testing.T) {
	s := newMiniSession(t)
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"load_type":       "light_dynamic",
	})

	// Candidates are Glue and Screw. The vertical question writes an
	// attribute no rule reads, so it cannot discriminate; vibration
	// splits the candidates and spans both remaining categories.
	if got := nextQuestionID(t, s); got != "vibration" {
		t.Errorf("next question = %q, want vibration", got)
	}
}

func TestSelectorStopsAtSingleCandidate(t *testing.T) {
	s := newMiniSession(t)
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"load_type":       "light_dynamic",
		"vibration":       true,
	})

	// Vibration excluded adhesives, leaving only the screw.
	got, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Screw" {
		t.Fatalf("candidates = %v, want only Screw", got)
	}
	if id := nextQuestionID(t, s); id != "" {
		t.Errorf("selector proposed %q with a single candidate left", id)
	}
}

func TestAskIfGatesQuestion(t *testing.T) {
	s := newMiniSession(t)
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"load_type":       "static",
	})

	// With a static load the vibration precondition fails and nothing
	// else can discriminate, so the conversation ends.
	if id := nextQuestionID(t, s); id != "" {
		t.Errorf("selector proposed %q despite failing ask_if", id)
	}
}

func TestSkippedQuestionIsNotReoffered(t *testing.T) {
	s := newMiniSession(t)
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"load_type":       "light_dynamic",
	})

	if err := s.Skip("vibration"); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if id := nextQuestionID(t, s); id == "vibration" {
		t.Error("skipped question offered again")
	}
}

func TestSimulationDoesNotDisturbLiveSession(t *testing.T) {
	s := newMiniSession(t)
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"load_type":       "light_dynamic",
	})

	if _, err := s.SelectNextQuestion(); err != nil {
		t.Fatalf("SelectNextQuestion: %v", err)
	}

	// Scoring simulated vibration=true, which excludes adhesives on the
	// clone; the live task must be untouched.
	if s.Task().Requirements.ExcludedCategories[domain.CategoryAdhesive] {
		t.Error("simulated answer leaked into the live task")
	}
	if _, present := s.Facts()["vibration"]; present {
		t.Error("simulated fact leaked into the live session")
	}
	if s.Task().Load.Vibration {
		t.Error("simulated attribute write leaked into the live task")
	}
}

func TestEliminationScore(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		total  int
		want   float64
	}{
		{"even split over two answers", []int{1, 1}, 2, 1.0},
		{"no elimination", []int{4, 4}, 4, 0.0},
		{"half eliminated on average", []int{1, 2}, 2, 0.5},
		{"single candidate", []int{1}, 1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eliminationScore(tt.counts, tt.total); got != tt.want {
				t.Errorf("eliminationScore(%v, %d) = %v, want %v", tt.counts, tt.total, got, tt.want)
			}
		})
	}
}
