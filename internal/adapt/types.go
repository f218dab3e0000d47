package adapt

import "storygraph/internal/consistency"

// Domain records as provided by the external stores. The orchestrator treats
// these as already-resolved in-memory collections; this package never does
// I/O beyond LoadSnapshot reading the files the CLI points it at.

type Story struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Summary      string    `yaml:"summary"`
	Genre        string    `yaml:"genre"`
	Status       string    `yaml:"status"`
	SeriesID     string    `yaml:"series"`
	CharacterIDs []string  `yaml:"characters"`
	Chapters     []Chapter `yaml:"chapters"`
	Tags         []string  `yaml:"tags"`
}

type Chapter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Number  int    `yaml:"number"`
	Summary string `yaml:"summary"`
	StoryID string `yaml:"-"` // filled from the enclosing story
}

type Character struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Role   string   `yaml:"role"`
	Level  int      `yaml:"level"`
	Traits []string `yaml:"traits"`
	Tags   []string `yaml:"tags"`
}

type Series struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Books []Book `yaml:"books"`
}

type Book struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Number   int    `yaml:"number"`
	StoryID  string `yaml:"story"`
	SeriesID string `yaml:"-"` // filled from the enclosing series
}

// ChapterState carries the authored world state at one chapter boundary.
type ChapterState struct {
	StoryID       string                                  `yaml:"story"`
	ChapterID     string                                  `yaml:"chapter"`
	ChapterNumber int                                     `yaml:"number"`
	Characters    map[string]consistency.CharacterState   `yaml:"characters"`
	Locations     map[string]consistency.LocationState    `yaml:"locations"`
	Items         map[string]consistency.ItemState        `yaml:"items"`
	World         map[string]any                          `yaml:"world"`
}

// Snapshot is the read-only view of every domain store, passed whole into
// the orchestrator so the core stays testable without a live environment.
type Snapshot struct {
	Stories    []Story        `yaml:"stories"`
	Characters []Character    `yaml:"characters"`
	Series     []Series       `yaml:"series"`
	States     []ChapterState `yaml:"states"`
}
