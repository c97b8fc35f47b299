package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	schema := domain.NewSchema()
	k, err := kb.Default(schema)
	if err != nil {
		t.Fatalf("loading default knowledge base: %v", err)
	}
	cat, err := NewCatalog(k, schema, nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func answerAll(t *testing.T, s *Session, answers map[string]any) {
	t.Helper()
	for id, v := range answers {
		if err := s.Answer(id, v); err != nil {
			t.Fatalf("Answer(%s, %v): %v", id, v, err)
		}
	}
}

func names(fs []domain.Fastener) map[string]bool {
	out := make(map[string]bool, len(fs))
	for _, f := range fs {
		out[f.Name] = true
	}
	return out
}

func TestVibratingMetalFrame(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{
		"material_type":   "metal",
		"material_type_2": "metal",
		"load_type":       "heavy_dynamic",
		"vibration":       true,
		"permanence":      "permanent",
	})

	got, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	surviving := names(got)

	if !surviving["Metal welding"] {
		t.Error("Metal welding should survive for a permanent vibrating metal joint")
	}
	if surviving["Wood glue (PVA)"] {
		t.Error("Wood glue must not be offered for metal")
	}
	for _, f := range got {
		if f.Category == domain.CategoryAdhesive {
			t.Errorf("adhesive %q survived despite vibration", f.Name)
		}
	}
	if !s.Task().Requirements.ExcludedCategories[domain.CategoryAdhesive] {
		t.Error("vibration did not exclude the adhesive category")
	}
	if s.Task().Requirements.MinTensileStrength != domain.StrengthHigh {
		t.Errorf("min tensile = %s, want high (chained from heavy_dynamic)",
			s.Task().Requirements.MinTensileStrength)
	}
}

func TestRemovableWoodFurniture(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{
		"material_type":   "wood",
		"material_type_2": "wood",
		"permanence":      "removable",
	})

	got, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	surviving := names(got)

	if !surviving["Wood screw"] || !surviving["Wood glue (PVA)"] {
		t.Errorf("wood screw and wood glue should survive, got %v", surviving)
	}
	if surviving["Two-component epoxy"] {
		t.Error("permanent epoxy survived a removable joint")
	}
	for _, f := range got {
		if f.Category == domain.CategoryThermal {
			t.Errorf("thermal method %q survived for wood", f.Name)
		}
	}
}

func TestBrittleGlassPanel(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{
		"material_type":   "glass",
		"material_type_2": "metal",
	})

	got, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no candidates for glass-to-metal")
	}
	for _, f := range got {
		if f.Category != domain.CategoryAdhesive {
			t.Errorf("%s (%s) survived; brittleness must leave only adhesives", f.Name, f.Category)
		}
	}
	if names(got)["Hex bolt"] {
		t.Error("mechanical fastener survived brittle material")
	}
}

func TestMaterialAnswerEnrichesSlot(t *testing.T) {
	s := New(newTestCatalog(t))
	if err := s.Answer("material_type", "glass"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	m := s.Task().Materials.A
	if m.Type != domain.MaterialGlass {
		t.Errorf("type = %s, want glass", m.Type)
	}
	if m.Brittleness != "very_high" {
		t.Errorf("brittleness = %q, want very_high from the materials catalog", m.Brittleness)
	}
	if m.BaseStrength != domain.StrengthModerate {
		t.Errorf("base strength = %s, want moderate", m.BaseStrength)
	}
}

func TestAnswerValidation(t *testing.T) {
	s := New(newTestCatalog(t))

	if err := s.Answer("no_such_question", true); err == nil {
		t.Error("unknown question id accepted")
	}
	if err := s.Answer("environment_moisture", "monsoon"); err == nil {
		t.Error("answer outside the choice list accepted")
	}
	if err := s.Answer("vibration", "maybe"); err == nil {
		t.Error("non-boolean answer accepted for boolean question")
	}
	if len(s.Facts()) != 0 {
		t.Errorf("rejected answers recorded as facts: %v", s.Facts())
	}
}

func TestReAnswerOverwritesAttribute(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{"environment_moisture": "outdoor"})
	answerAll(t, s, map[string]any{"environment_moisture": "none"})

	if got := s.Task().Environment.Moisture; got != domain.MoistureNone {
		t.Errorf("moisture = %s, want none after re-answer", got)
	}
	if got := s.Facts()["environment_moisture"]; got != "none" {
		t.Errorf("fact = %v, want none", got)
	}
}

func TestRecommendAttachesSuggestions(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{
		"material_type":   "metal",
		"material_type_2": "metal",
		"load_type":       "heavy_dynamic",
		"vibration":       true,
		"permanence":      "permanent",
	})

	recs, err := s.Recommend()
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, r := range recs {
		hasLocking := false
		for _, sug := range r.Suggestions {
			if sug == "Use thread-locking compound or lock washers so the fastener cannot work loose under vibration." {
				hasLocking = true
			}
		}
		if r.Fastener.Category == domain.CategoryMechanical && !hasLocking {
			t.Errorf("%s: missing vibration advice, got %v", r.Fastener.Name, r.Suggestions)
		}
		if r.Fastener.Category == domain.CategoryThermal && hasLocking {
			t.Errorf("%s: mechanical advice attached to a thermal method", r.Fastener.Name)
		}
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New(newTestCatalog(t))
	answerAll(t, s, map[string]any{
		"material_type":   "metal",
		"material_type_2": "metal",
		"load_type":       "heavy_dynamic",
		"vibration":       true,
		"permanence":      "permanent",
	})
	if err := s.Skip("temperature_extremes"); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	before, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}

	snap := s.Snapshot()
	restored, err := Restore(newTestCatalog(t), snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.ID != s.ID {
		t.Errorf("restored id = %s, want %s", restored.ID, s.ID)
	}
	if diff := cmp.Diff(s.Facts(), restored.Facts()); diff != "" {
		t.Errorf("facts mismatch (-want +got):\n%s", diff)
	}

	// Restoring must not re-run inference: the fired rules come from
	// the snapshot and the requirements are taken verbatim.
	if fired, _ := restored.Infer(); len(fired) != 0 {
		t.Errorf("restore left rules to re-fire: %v", fired)
	}

	after, err := restored.Candidates()
	if err != nil {
		t.Fatalf("Candidates after restore: %v", err)
	}
	if diff := cmp.Diff(names(before), names(after)); diff != "" {
		t.Errorf("candidates changed across restore (-want +got):\n%s", diff)
	}
}

func TestResetClearsDerivedState(t *testing.T) {
	cat := newTestCatalog(t)
	s := New(cat)
	answerAll(t, s, map[string]any{
		"material_type":   "glass",
		"material_type_2": "metal",
	})
	if _, err := s.Infer(); err != nil {
		t.Fatalf("Infer: %v", err)
	}

	s.Reset()

	if len(s.Facts()) != 0 {
		t.Errorf("facts survived reset: %v", s.Facts())
	}
	if len(s.Task().Requirements.ExcludedCategories) != 0 {
		t.Error("excluded categories survived reset")
	}

	got, err := s.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(got) != len(cat.KB.Fasteners) {
		t.Errorf("%d candidates after reset, want full catalog of %d", len(got), len(cat.KB.Fasteners))
	}
}
