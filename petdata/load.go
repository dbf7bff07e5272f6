package petdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDataMissing is returned when a required data file does not exist.
var ErrDataMissing = errors.New("petdata: data file missing")

// petFiles are tried in order; cat.json predates pet.json.
var petFiles = []string{"pet.json", "cat.json"}

// Load reads site.json, health.json, owner.json and pet.json (falling
// back to cat.json) from dir.
func Load(dir string) (Data, error) {
	var d Data
	if err := readJSON(filepath.Join(dir, "site.json"), &d.Site); err != nil {
		return Data{}, err
	}
	if err := readJSON(filepath.Join(dir, "health.json"), &d.Health); err != nil {
		return Data{}, err
	}
	if err := readJSON(filepath.Join(dir, "owner.json"), &d.Owner); err != nil {
		return Data{}, err
	}

	petPath := filepath.Join(dir, petFiles[0])
	for _, name := range petFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			petPath = p
			break
		}
	}
	if err := readJSON(petPath, &d.Pet); err != nil {
		return Data{}, err
	}
	d.Cat = d.Pet
	return d, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDataMissing, path)
		}
		return fmt.Errorf("petdata: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("petdata: parse %s: %w", path, err)
	}
	return nil
}
