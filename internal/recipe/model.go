package recipe

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Recipe is a saved recipe row. VideoLink is nullable so that a recipe
// saved without a tutorial video reads back as absent, not "".
type Recipe struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	NameTelugu   string         `json:"name_telugu" db:"name_telugu"`
	Region       string         `json:"region" db:"region"`
	Ingredients  string         `json:"ingredients" db:"ingredients"`
	Instructions string         `json:"instructions" db:"instructions"`
	VideoLink    sql.NullString `json:"-" db:"video_link"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// MarshalJSON renders VideoLink as a plain string or null.
func (r Recipe) MarshalJSON() ([]byte, error) {
	type Alias Recipe
	aux := struct {
		Alias
		VideoLink *string `json:"video_link"`
	}{Alias: (Alias)(r)}
	if r.VideoLink.Valid {
		aux.VideoLink = &r.VideoLink.String
	}
	return json.Marshal(aux)
}

// UnmarshalJSON accepts a plain string or null for video_link.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe
	aux := &struct {
		*Alias
		VideoLink *string `json:"video_link"`
	}{Alias: (*Alias)(r)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.VideoLink != nil {
		r.VideoLink = sql.NullString{String: *aux.VideoLink, Valid: true}
	} else {
		r.VideoLink = sql.NullString{}
	}
	return nil
}

// Regions lists the supported cuisine regions, "Any" first.
var Regions = []string{
	"Any",
	"Andhra",
	"Telangana",
	"South Indian",
	"North Indian",
	"Bengali",
	"Gujarati",
	"Maharashtrian",
	"Rajasthani",
	"Punjab",
}

// DishTypes lists the supported dish categories, "Any" first.
var DishTypes = []string{
	"Any",
	"Curry",
	"Rice Dish",
	"Breakfast",
	"Snack",
	"Sweet",
	"Chutney",
	"Roti/Bread",
}

// ValidRegion reports whether region is one of Regions.
func ValidRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// ValidDishType reports whether dishType is one of DishTypes.
func ValidDishType(dishType string) bool {
	for _, d := range DishTypes {
		if d == dishType {
			return true
		}
	}
	return false
}

// GenerationParams are the user-selected inputs to recipe generation.
type GenerationParams struct {
	Ingredients []string `json:"ingredients"`
	Region      string   `json:"region"`
	SpiceLevel  int      `json:"spice_level"`
	DishType    string   `json:"dish_type"`
	MaxMinutes  int      `json:"max_minutes"`
}

// Validate checks ranges and enum membership. Ingredient presence is the
// caller's concern (an empty list is a UI warning, not a validation error).
func (p GenerationParams) Validate() error {
	if !ValidRegion(p.Region) {
		return fmt.Errorf("unknown region %q", p.Region)
	}
	if !ValidDishType(p.DishType) {
		return fmt.Errorf("unknown dish type %q", p.DishType)
	}
	if p.SpiceLevel < 1 || p.SpiceLevel > 5 {
		return fmt.Errorf("spice level must be 1-5, got %d", p.SpiceLevel)
	}
	if p.MaxMinutes < 5 || p.MaxMinutes > 120 {
		return fmt.Errorf("max minutes must be 5-120, got %d", p.MaxMinutes)
	}
	return nil
}

// BuildPrompt composes the recipe-generation prompt. The TITLE marker lines
// let ExtractTitles recover the names without trusting line positions.
func (p GenerationParams) BuildPrompt() string {
	region := p.Region
	if region == "Any" {
		region = "Indian"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %s Indian recipe using these ingredients: %s.\n\n", p.Region, strings.Join(p.Ingredients, ", "))
	fmt.Fprintf(&b, "Region: %s\n", region)
	fmt.Fprintf(&b, "Spice Level: %d/5\n", p.SpiceLevel)
	fmt.Fprintf(&b, "Type of Dish: %s\n", p.DishType)
	fmt.Fprintf(&b, "Maximum cooking time: %d minutes\n\n", p.MaxMinutes)
	b.WriteString(`Begin your response with exactly these two lines, then the recipe body:

TITLE: [recipe name in English]
TITLE_TELUGU: [recipe name in Telugu]

## Ingredients
- [List all ingredients with measurements]

## Instructions
1. [Step-by-step cooking instructions]

## Tips
- [1-3 cooking tips specific to Indian cuisine]

## Serving Suggestions
- [What to serve this dish with]

Important: Use the identified ingredients and suggest common Indian substitutes if needed.
Include traditional cooking methods and authentic spicing.`)
	return b.String()
}

// UntitledName is used when no title can be recovered from generated text.
const UntitledName = "Untitled"

// ExtractTitles pulls the English and Telugu recipe names out of generated
// markdown. It looks for the TITLE:/TITLE_TELUGU: marker lines the prompt
// asks for, falls back to the first two level-1 headings, and finally to
// UntitledName rather than promoting body text to a title. Only "# " lines
// count as heading candidates: the "## Ingredients" and "## Instructions"
// section headers the prompt mandates must never become names, and once a
// TITLE: marker is seen the heading fallback is off entirely.
func ExtractTitles(text string) (name, nameTelugu string) {
	var headings []string
	markerFound := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE_TELUGU:"):
			if nameTelugu == "" {
				nameTelugu = strings.TrimSpace(strings.TrimPrefix(line, "TITLE_TELUGU:"))
			}
		case strings.HasPrefix(line, "TITLE:"):
			markerFound = true
			if name == "" {
				name = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
			}
		case strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##") && len(headings) < 2:
			heading := strings.TrimSpace(strings.TrimLeft(line, "# "))
			if heading != "" {
				headings = append(headings, heading)
			}
		}
	}

	if !markerFound {
		if name == "" && len(headings) > 0 {
			name = headings[0]
		}
		if nameTelugu == "" && len(headings) > 1 {
			nameTelugu = headings[1]
		}
	}
	if name == "" {
		name = UntitledName
	}
	return name, nameTelugu
}

// SplitIngredients turns a model's comma-separated ingredient answer into a
// trimmed list, dropping empty entries.
func SplitIngredients(text string) []string {
	parts := strings.Split(text, ",")
	ingredients := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ingredients = append(ingredients, p)
		}
	}
	return ingredients
}
