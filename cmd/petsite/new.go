package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/manifoldco/promptui"

	"github.com/eringen/petsite/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	PetName     string
	Species     string
	OwnerName   string
	SiteURL     string
}

// templateFuncs: json quotes a value for JSON data files.
var templateFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

var speciesChoices = []string{"Cat", "Dog", "Rabbit", "Guinea pig", "Bird", "Other"}

func runNew(dir string, yes bool) error {
	dirName := filepath.Base(filepath.Clean(dir))
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	data := scaffoldData{
		ProjectName: dirName,
		PetName:     toTitle(dirName),
		Species:     speciesChoices[0],
		SiteURL:     "https://example.com",
	}
	if !yes {
		if err := promptScaffold(&data); err != nil {
			return err
		}
	}

	fmt.Printf("Creating new petsite project for %s: %s\n\n", data.PetName, dir)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		outPath := filepath.Join(dir, relPath)
		outPath = strings.TrimSuffix(outPath, ".tmpl")

		// Dotfiles are stored under plain names in the scaffold.
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitignore":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitignore")
		case "gitkeep":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitkeep")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		// Binary and non-template files are copied as is.
		if !strings.HasSuffix(path, ".tmpl") {
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return err
			}
			fmt.Printf("  created %s\n", outPath)
			return nil
		}

		tmpl, err := template.New(filepath.Base(path)).Funcs(templateFuncs).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}

		fmt.Printf("  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  make wasm")
	fmt.Println("  petsite serve")
	fmt.Println()
	fmt.Println("Edit src/data/*.json to describe your pet and drop photos into src/assets/images.")
	return nil
}

func promptScaffold(data *scaffoldData) error {
	namePrompt := promptui.Prompt{
		Label:    "Pet name",
		Default:  data.PetName,
		Validate: notBlank,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return promptErr("pet name", err)
	}
	data.PetName = strings.TrimSpace(name)

	speciesPrompt := promptui.Select{
		Label: "Species",
		Items: speciesChoices,
	}
	_, species, err := speciesPrompt.Run()
	if err != nil {
		return promptErr("species", err)
	}
	data.Species = species

	ownerPrompt := promptui.Prompt{
		Label:   "Your name",
		Default: data.OwnerName,
	}
	owner, err := ownerPrompt.Run()
	if err != nil {
		return promptErr("owner name", err)
	}
	data.OwnerName = strings.TrimSpace(owner)

	urlPrompt := promptui.Prompt{
		Label:   "Site URL",
		Default: data.SiteURL,
	}
	siteURL, err := urlPrompt.Run()
	if err != nil {
		return promptErr("site url", err)
	}
	data.SiteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	return nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func promptErr(what string, err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("cancelled")
	}
	return fmt.Errorf("%s: %w", what, err)
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "mochi-the-cat" -> "Mochi The Cat", "mochi" -> "Mochi"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
