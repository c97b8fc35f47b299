// Package domain defines the domain objects of the fastening advisor.
//
// It is purely declarative: the types here describe what entities exist
// in the problem domain and which attributes they carry. Inference rules,
// question selection, and user interaction live in other packages and
// operate on these types.
//
// The central object is a Task, which represents one concrete fastening
// problem. During inference, rules refine knowledge by updating the
// DerivedRequirements stored on the Task.
package domain

import "fmt"

// --- Material type enum ---

// MaterialType identifies a material surface involved in a fastening task.
type MaterialType string

const (
	MaterialWood    MaterialType = "wood"
	MaterialMetal   MaterialType = "metal"
	MaterialPaper   MaterialType = "paper"
	MaterialPlastic MaterialType = "plastic"
	MaterialGlass   MaterialType = "glass"
	MaterialCeramic MaterialType = "ceramic"
	MaterialStone   MaterialType = "stone"
	MaterialMasonry MaterialType = "masonry"
	MaterialFabric  MaterialType = "fabric"
)

// validMaterials is the set of allowed material types.
var validMaterials = map[MaterialType]bool{
	MaterialWood:    true,
	MaterialMetal:   true,
	MaterialPaper:   true,
	MaterialPlastic: true,
	MaterialGlass:   true,
	MaterialCeramic: true,
	MaterialStone:   true,
	MaterialMasonry: true,
	MaterialFabric:  true,
}

// ParseMaterialType returns an error if the value is not a recognized material.
func ParseMaterialType(s string) (MaterialType, error) {
	m := MaterialType(s)
	if !validMaterials[m] {
		return "", fmt.Errorf("invalid material type %q", s)
	}
	return m, nil
}

// --- Moisture exposure enum ---

// MoistureExposure describes the moisture conditions at the joint.
type MoistureExposure string

const (
	MoistureNone      MoistureExposure = "none"
	MoistureSplash    MoistureExposure = "splash"
	MoistureOutdoor   MoistureExposure = "outdoor"
	MoistureSubmerged MoistureExposure = "submerged"
)

var validMoisture = map[MoistureExposure]bool{
	MoistureNone:      true,
	MoistureSplash:    true,
	MoistureOutdoor:   true,
	MoistureSubmerged: true,
}

// ParseMoistureExposure returns an error if the value is not recognized.
func ParseMoistureExposure(s string) (MoistureExposure, error) {
	m := MoistureExposure(s)
	if !validMoisture[m] {
		return "", fmt.Errorf("invalid moisture exposure %q", s)
	}
	return m, nil
}

// --- Load type enum ---

// LoadType describes the mechanical load applied to the joint.
type LoadType string

const (
	LoadStatic       LoadType = "static"
	LoadLightDynamic LoadType = "light_dynamic"
	LoadHeavyDynamic LoadType = "heavy_dynamic"
)

var validLoadTypes = map[LoadType]bool{
	LoadStatic:       true,
	LoadLightDynamic: true,
	LoadHeavyDynamic: true,
}

// ParseLoadType returns an error if the value is not recognized.
func ParseLoadType(s string) (LoadType, error) {
	l := LoadType(s)
	if !validLoadTypes[l] {
		return "", fmt.Errorf("invalid load type %q", s)
	}
	return l, nil
}

// --- Permanence enum ---

// Permanence describes whether a joint must be removable or permanent.
type Permanence string

const (
	PermanenceRemovable     Permanence = "removable"
	PermanenceSemiPermanent Permanence = "semi_permanent"
	PermanencePermanent     Permanence = "permanent"
)

var validPermanences = map[Permanence]bool{
	PermanenceRemovable:     true,
	PermanenceSemiPermanent: true,
	PermanencePermanent:     true,
}

// ParsePermanence returns an error if the value is not recognized.
func ParsePermanence(s string) (Permanence, error) {
	p := Permanence(s)
	if !validPermanences[p] {
		return "", fmt.Errorf("invalid permanence %q", s)
	}
	return p, nil
}

// --- Rigidity enum ---

// Rigidity describes the rigidity of a fastener after installation.
type Rigidity string

const (
	RigidityFlexible     Rigidity = "flexible"
	RigiditySemiFlexible Rigidity = "semi_flexible"
	RigidityRigid        Rigidity = "rigid"
)

var validRigidities = map[Rigidity]bool{
	RigidityFlexible:     true,
	RigiditySemiFlexible: true,
	RigidityRigid:        true,
}

// ParseRigidity returns an error if the value is not recognized.
func ParseRigidity(s string) (Rigidity, error) {
	r := Rigidity(s)
	if !validRigidities[r] {
		return "", fmt.Errorf("invalid rigidity %q", s)
	}
	return r, nil
}

// --- Fastener category enum ---

// Category tags a fastening method by its working principle.
type Category string

const (
	CategoryAdhesive   Category = "adhesive"
	CategoryMechanical Category = "mechanical"
	CategoryThermal    Category = "thermal"
)

var validCategories = map[Category]bool{
	CategoryAdhesive:   true,
	CategoryMechanical: true,
	CategoryThermal:    true,
}

// ParseCategory returns an error if the value is not recognized.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !validCategories[c] {
		return "", fmt.Errorf("invalid fastener category %q", s)
	}
	return c, nil
}
