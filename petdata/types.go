// Package petdata loads the JSON files describing the pet, its health
// records and its owner.
package petdata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/eringen/petsite/filters"
)

// Data is everything loaded from the data directory and handed to the
// page templates.
type Data struct {
	Site   Site
	Pet    Pet
	Cat    Pet // same value as Pet, kept for cat.json era templates
	Health Health
	Owner  Owner
}

// Site is site.json.
type Site struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Language    string `json:"language"`
	Author      string `json:"author"`
	Keywords    string `json:"keywords"`
}

// Photo is an image under src/assets/images with its alt text.
type Photo struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Pet is pet.json (or cat.json).
type Pet struct {
	Name      string   `json:"name"`
	Nickname  string   `json:"nickname"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	Sex       string   `json:"sex"`
	Colour    string   `json:"colour"`
	DOB       string   `json:"dob"`
	Microchip string   `json:"microchip"`
	About     string   `json:"about"`
	HeroImage string   `json:"heroImage"`
	HeroAlt   string   `json:"heroAlt"`
	Traits    []string `json:"traits"`
	Likes     []string `json:"likes"`
	Dislikes  []string `json:"dislikes"`
	Gallery   []Photo  `json:"gallery"`
	Routine   Routine  `json:"routine"`
}

// Vaccination is one recorded dose.
type Vaccination = filters.Vaccination

// Medication is a current or past treatment.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
}

// Vet is the practice looking after the pet.
type Vet struct {
	Name    string `json:"name"`
	Clinic  string `json:"clinic"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Health is health.json.
type Health struct {
	Vet          Vet           `json:"vet"`
	Vaccinations []Vaccination `json:"vaccinations"`
	Medications  []Medication  `json:"medications"`
	Allergies    []string      `json:"allergies"`
	Conditions   []string      `json:"conditions"`
	Notes        string        `json:"notes"`
}

// Contact is a person that can be reached about the pet.
type Contact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Owner is owner.json.
type Owner struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Emergency []Contact `json:"emergencyContacts"`
}

// RoutineEntry is one key of the routine object, e.g. "morningFeed".
type RoutineEntry struct {
	Key   string
	Value string
}

// Routine keeps routine entries in the order they appear in the file.
type Routine []RoutineEntry

// UnmarshalJSON decodes a JSON object of strings preserving key order.
func (r *Routine) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("routine: expected object")
	}
	var out Routine
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("routine %q: %w", key, err)
		}
		out = append(out, RoutineEntry{Key: key, Value: stringify(value)})
	}
	*r = out
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
