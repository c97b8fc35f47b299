// Package kb loads and validates the declarative knowledge base: the
// question catalog, the inference rules, the candidate fasteners, the
// material property table, and the suggestion rules.
//
// The knowledge base is data, not code: rules and questions address
// Task attributes by dotted path, and every path is validated against
// the domain schema at load time. A knowledge base that references an
// attribute the Task shape does not have is broken and must stop
// processing; see ErrConfig.
package kb

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaspervw/fastrec/internal/domain"
)

// ErrConfig marks a broken knowledge base: a malformed path, an unknown
// symbol, or a structurally invalid entry. Callers use errors.Is to
// distinguish it from I/O failures.
var ErrConfig = errors.New("knowledge base configuration error")

// --- Question ---

// QuestionType distinguishes boolean questions from single-choice ones.
type QuestionType string

const (
	TypeBoolean QuestionType = "boolean"
	TypeChoice  QuestionType = "choice"
)

// Question is one entry of the question catalog. Questions are read-only
// configuration, loaded once and shared across sessions.
type Question struct {
	ID           string            `yaml:"id"`
	Text         string            `yaml:"text"`
	Type         QuestionType      `yaml:"type"`
	Choices      []string          `yaml:"choices,omitempty"`
	ApplicableTo []domain.Category `yaml:"applicable_to"`

	// Attribute is the Task path the answer is written to.
	Attribute string `yaml:"attribute"`

	// AskIf optionally restricts when the question applies: every
	// path must resolve to the expected value (or one of them, for a
	// list) before the question is offered.
	AskIf map[string]any `yaml:"ask_if,omitempty"`
}

// Answers enumerates the possible answers used for simulation: the
// choice list, or {true, false} for boolean questions.
func (q Question) Answers() []any {
	if q.Type == TypeBoolean {
		return []any{true, false}
	}
	out := make([]any, len(q.Choices))
	for i, c := range q.Choices {
		out[i] = c
	}
	return out
}

// CoerceAnswer converts a raw answer into the value stored as a fact:
// booleans accept bool or "true"/"false"/"yes"/"no" strings, choices
// must be one of the declared options.
func (q Question) CoerceAnswer(raw any) (any, error) {
	switch q.Type {
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch v {
			case "true", "yes", "y":
				return true, nil
			case "false", "no", "n":
				return false, nil
			}
		}
		return nil, fmt.Errorf("question %q expects a boolean answer, got %v", q.ID, raw)
	case TypeChoice:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("question %q expects one of %v, got %v", q.ID, q.Choices, raw)
		}
		for _, c := range q.Choices {
			if c == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("question %q expects one of %v, got %q", q.ID, q.Choices, s)
	}
	return nil, fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
}

// --- Rule specification ---

// RuleSpec is the declarative form of one inference rule: all condition
// paths must match (AND), a list of expected values means any of them
// (OR), and every effect is applied according to the target field's
// declared kind. Priority is meaningful only to the fact-keyed
// conclusion engine; the canonical engine fires in catalog order.
type RuleSpec struct {
	ID         string         `yaml:"id"`
	Priority   int            `yaml:"priority,omitempty"`
	Conditions map[string]any `yaml:"conditions"`
	Effects    map[string]any `yaml:"effects"`
}

// --- Suggestion rule ---

// SuggestionRule attaches a human-readable note to recommendations.
// AppliesTo holds fastener names, category tags, or "all";
// Conditions is a fact-keyed condition map (question id → expected).
type SuggestionRule struct {
	ID         string         `yaml:"id"`
	AppliesTo  []string       `yaml:"applies_to"`
	Conditions map[string]any `yaml:"conditions"`
	Suggestion string         `yaml:"suggestion"`
}

// --- Material catalog ---

// MaterialSpec holds the intrinsic properties filled into a Task's
// material slot when its type becomes known.
type MaterialSpec struct {
	MaterialType string `yaml:"material_type"`
	Porosity     string `yaml:"porosity"`
	Brittleness  string `yaml:"brittleness"`
	BaseStrength string `yaml:"base_strength"`
}

// --- Fastener specification ---

// fastenerSpec is the YAML shape of a catalog entry; parsing converts
// it into the typed domain.Fastener.
type fastenerSpec struct {
	Name                   string   `yaml:"name"`
	Category               string   `yaml:"category"`
	CompatibleMaterials    []string `yaml:"compatible_materials"`
	TensileStrength        string   `yaml:"tensile_strength"`
	ShearStrength          string   `yaml:"shear_strength"`
	WaterResistance        string   `yaml:"water_resistance"`
	TemperatureResistance  string   `yaml:"temperature_resistance"`
	UVResistance           string   `yaml:"uv_resistance"`
	VibrationResistance    string   `yaml:"vibration_resistance"`
	ChemicalResistance     string   `yaml:"chemical_resistance"`
	Rigidity               string   `yaml:"rigidity"`
	Permanence             string   `yaml:"permanence"`
	RequiresTwoSidedAccess bool     `yaml:"requires_two_sided_access"`
}

// --- Knowledge base ---

// file is the on-disk YAML layout.
type file struct {
	MandatoryQuestions []string         `yaml:"mandatory_questions"`
	Materials          []MaterialSpec   `yaml:"materials"`
	Questions          []Question       `yaml:"questions"`
	Rules              []RuleSpec       `yaml:"rules"`
	Fasteners          []fastenerSpec   `yaml:"fasteners"`
	SuggestionRules    []SuggestionRule `yaml:"suggestion_rules"`
}

// KnowledgeBase is the loaded, validated catalog. It is immutable after
// load and safely shared read-only across concurrent sessions.
type KnowledgeBase struct {
	MandatoryQuestions []string
	Materials          map[string]MaterialSpec
	Questions          []Question
	Rules              []RuleSpec
	Fasteners          []domain.Fastener
	SuggestionRules    []SuggestionRule

	byID map[string]*Question
}

// Question returns the catalog entry for a question id, or an error for
// ids not in the catalog.
func (k *KnowledgeBase) Question(id string) (*Question, error) {
	q, ok := k.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown question id %q", id)
	}
	return q, nil
}

// Load reads and validates a knowledge base file.
func Load(path string, schema domain.Schema) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}
	return Parse(data, schema)
}

// Parse decodes and validates knowledge base YAML. Every structural
// problem is reported as ErrConfig: a broken knowledge base must stop
// processing rather than be silently skipped.
func Parse(data []byte, schema domain.Schema) (*KnowledgeBase, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	k := &KnowledgeBase{
		MandatoryQuestions: f.MandatoryQuestions,
		Materials:          make(map[string]MaterialSpec, len(f.Materials)),
		Questions:          f.Questions,
		Rules:              f.Rules,
		SuggestionRules:    f.SuggestionRules,
		byID:               make(map[string]*Question, len(f.Questions)),
	}

	for _, m := range f.Materials {
		if _, err := domain.ParseMaterialType(m.MaterialType); err != nil {
			return nil, fmt.Errorf("%w: materials: %v", ErrConfig, err)
		}
		if _, err := domain.ParseStrength(m.BaseStrength); err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrConfig, m.MaterialType, err)
		}
		k.Materials[m.MaterialType] = m
	}

	for i := range k.Questions {
		q := &k.Questions[i]
		if err := validateQuestion(q, schema); err != nil {
			return nil, fmt.Errorf("%w: question %q: %v", ErrConfig, q.ID, err)
		}
		if _, dup := k.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrConfig, q.ID)
		}
		k.byID[q.ID] = q
	}

	for _, id := range k.MandatoryQuestions {
		if _, ok := k.byID[id]; !ok {
			return nil, fmt.Errorf("%w: mandatory question %q not in catalog", ErrConfig, id)
		}
	}

	for _, r := range k.Rules {
		if err := validateRule(r, schema); err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrConfig, r.ID, err)
		}
	}

	k.Fasteners = make([]domain.Fastener, 0, len(f.Fasteners))
	for _, fs := range f.Fasteners {
		fastener, err := parseFastener(fs)
		if err != nil {
			return nil, fmt.Errorf("%w: fastener %q: %v", ErrConfig, fs.Name, err)
		}
		k.Fasteners = append(k.Fasteners, fastener)
	}

	return k, nil
}

func validateQuestion(q *Question, schema domain.Schema) error {
	if q.ID == "" {
		return errors.New("missing id")
	}
	switch q.Type {
	case TypeBoolean:
		if len(q.Choices) > 0 {
			return errors.New("boolean question must not declare choices")
		}
	case TypeChoice:
		if len(q.Choices) == 0 {
			return errors.New("choice question needs at least one choice")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	for _, c := range q.ApplicableTo {
		if _, err := domain.ParseCategory(string(c)); err != nil {
			return err
		}
	}
	if q.Attribute != "" {
		f, err := schema.Field(q.Attribute)
		if err != nil {
			return err
		}
		if !f.Settable() {
			return fmt.Errorf("attribute path %q is not writable", q.Attribute)
		}
	}
	for path := range q.AskIf {
		if _, err := schema.Field(path); err != nil {
			return fmt.Errorf("ask_if: %w", err)
		}
	}
	return nil
}

func validateRule(r RuleSpec, schema domain.Schema) error {
	if r.ID == "" {
		return errors.New("missing id")
	}
	if len(r.Conditions) == 0 {
		return errors.New("needs at least one condition")
	}
	if len(r.Effects) == 0 {
		return errors.New("needs at least one effect")
	}
	for path := range r.Conditions {
		if _, err := schema.Field(path); err != nil {
			return fmt.Errorf("condition: %w", err)
		}
	}
	for path := range r.Effects {
		f, err := schema.Field(path)
		if err != nil {
			return fmt.Errorf("effect: %w", err)
		}
		if !f.Settable() {
			return fmt.Errorf("effect path %q is not writable", path)
		}
	}
	return nil
}

func parseFastener(fs fastenerSpec) (domain.Fastener, error) {
	var f domain.Fastener
	var err error

	if fs.Name == "" {
		return f, errors.New("missing name")
	}
	f.Name = fs.Name

	if f.Category, err = domain.ParseCategory(fs.Category); err != nil {
		return f, err
	}
	for _, m := range fs.CompatibleMaterials {
		mt, err := domain.ParseMaterialType(m)
		if err != nil {
			return f, err
		}
		f.CompatibleMaterials = append(f.CompatibleMaterials, mt)
	}
	if f.TensileStrength, err = domain.ParseStrength(fs.TensileStrength); err != nil {
		return f, fmt.Errorf("tensile_strength: %w", err)
	}
	if f.ShearStrength, err = domain.ParseStrength(fs.ShearStrength); err != nil {
		return f, fmt.Errorf("shear_strength: %w", err)
	}
	if f.WaterResistance, err = domain.ParseResistance(fs.WaterResistance); err != nil {
		return f, fmt.Errorf("water_resistance: %w", err)
	}
	if f.TemperatureResistance, err = domain.ParseResistance(fs.TemperatureResistance); err != nil {
		return f, fmt.Errorf("temperature_resistance: %w", err)
	}
	if f.UVResistance, err = domain.ParseResistance(fs.UVResistance); err != nil {
		return f, fmt.Errorf("uv_resistance: %w", err)
	}
	if f.VibrationResistance, err = domain.ParseResistance(fs.VibrationResistance); err != nil {
		return f, fmt.Errorf("vibration_resistance: %w", err)
	}
	if f.ChemicalResistance, err = domain.ParseResistance(fs.ChemicalResistance); err != nil {
		return f, fmt.Errorf("chemical_resistance: %w", err)
	}
	if f.Rigidity, err = domain.ParseRigidity(fs.Rigidity); err != nil {
		return f, err
	}
	if f.Permanence, err = domain.ParsePermanence(fs.Permanence); err != nil {
		return f, err
	}
	f.RequiresTwoSidedAccess = fs.RequiresTwoSidedAccess

	return f, nil
}
