package petdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

var baseFiles = map[string]string{
	"site.json":   `{"title":"Mochi","url":"https://mochi.example","language":"en"}`,
	"health.json": `{"vet":{"name":"Dr Paws","phone":"+44 1234"},"vaccinations":[{"name":"Rabies","date":"01-02-2024","nextDue":"01-02-2025"}]}`,
	"owner.json":  `{"name":"Sam","phone":"+44 7000","emergencyContacts":[{"name":"Alex","relationship":"friend"}]}`,
}

func with(extra map[string]string) map[string]string {
	out := make(map[string]string, len(baseFiles)+len(extra))
	for k, v := range baseFiles {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func TestLoadPetJSON(t *testing.T) {
	dir := writeFiles(t, with(map[string]string{
		"pet.json": `{"name":"Mochi","dob":"14-03-2021","gallery":[{"src":"a.jpg","alt":"A"}],"routine":{"morningFeed":"7am","walks":2}}`,
		"cat.json": `{"name":"Old"}`,
	}))

	d, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Mochi", d.Pet.Name)
	assert.Equal(t, d.Pet, d.Cat)
	assert.Equal(t, "https://mochi.example", d.Site.URL)
	assert.Equal(t, "Dr Paws", d.Health.Vet.Name)
	require.Len(t, d.Health.Vaccinations, 1)
	assert.Equal(t, "01-02-2025", d.Health.Vaccinations[0].NextDue)
	require.Len(t, d.Owner.Emergency, 1)
	assert.Equal(t, "friend", d.Owner.Emergency[0].Relationship)
	assert.Equal(t, Routine{{Key: "morningFeed", Value: "7am"}, {Key: "walks", Value: "2"}}, d.Pet.Routine)
}

func TestLoadFallsBackToCatJSON(t *testing.T) {
	dir := writeFiles(t, with(map[string]string{
		"cat.json": `{"name":"Biscuit"}`,
	}))

	d, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", d.Pet.Name)
	assert.Equal(t, "Biscuit", d.Cat.Name)
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"site.json": `{}`,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataMissing)
	assert.Contains(t, err.Error(), "health.json")
}

func TestLoadMissingPet(t *testing.T) {
	dir := writeFiles(t, baseFiles)

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrDataMissing)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := writeFiles(t, with(map[string]string{
		"pet.json": `{"name":`,
	}))

	_, err := Load(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDataMissing)
	assert.Contains(t, err.Error(), "pet.json")
}

func TestRoutinePreservesOrder(t *testing.T) {
	var r Routine
	require.NoError(t, r.UnmarshalJSON([]byte(`{"zeta":"last?","alpha":"first?","nested":{"a":1},"none":null}`)))
	assert.Equal(t, Routine{
		{Key: "zeta", Value: "last?"},
		{Key: "alpha", Value: "first?"},
		{Key: "nested", Value: `{"a":1}`},
		{Key: "none", Value: ""},
	}, r)
}

func TestRoutineRejectsArray(t *testing.T) {
	var r Routine
	assert.Error(t, r.UnmarshalJSON([]byte(`["a"]`)))
}

func TestRoutineNull(t *testing.T) {
	r := Routine{{Key: "a", Value: "b"}}
	require.NoError(t, r.UnmarshalJSON([]byte(`null`)))
	assert.Nil(t, r)
}
