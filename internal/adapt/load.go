package adapt

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnapshot reads the domain store files from a directory. Missing files
// are tolerated; the corresponding collection stays empty.
func LoadSnapshot(dir string) (Snapshot, error) {
	var snap Snapshot

	files := []struct {
		name string
		into any
	}{
		{"stories.yaml", &snap.Stories},
		{"characters.yaml", &snap.Characters},
		{"series.yaml", &snap.Series},
		{"states.yaml", &snap.States},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Snapshot{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, f.into); err != nil {
			return Snapshot{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// chapters and books know their parent only through nesting
	for i := range snap.Stories {
		for j := range snap.Stories[i].Chapters {
			snap.Stories[i].Chapters[j].StoryID = snap.Stories[i].ID
		}
	}
	for i := range snap.Series {
		for j := range snap.Series[i].Books {
			snap.Series[i].Books[j].SeriesID = snap.Series[i].ID
		}
	}

	return snap, nil
}
