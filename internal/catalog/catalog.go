// Package catalog maps background names to downloadable sources. A catalog
// ships embedded in the binary; operators can point at their own JSON file
// to extend or replace it.
package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "embed"
)

// Kind distinguishes the two background media types.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Entry describes one background source.
type Entry struct {
	Name     string
	URI      string
	Filename string
	Credit   string
	// Position is the overlay anchor for video backgrounds, either
	// "center" or a vertical pixel offset. Empty for audio.
	Position string
}

// LocalName is the filename a downloaded background is stored under. The
// credit prefix keeps files from different uploaders apart.
func (e Entry) LocalName() string {
	return e.Credit + "-" + e.Filename
}

// LocalPath resolves where a background lives under the configured
// backgrounds directory.
func (e Entry) LocalPath(backgroundsDir string, kind Kind) string {
	return filepath.Join(backgroundsDir, string(kind), e.LocalName())
}

// Catalog holds the known audio and video backgrounds keyed by casefolded
// name.
type Catalog struct {
	audio map[string]Entry
	video map[string]Entry
}

//go:embed catalog.json
var embedded []byte

// Load reads the catalog at path, or the embedded catalog when path is
// empty.
func Load(path string) (*Catalog, error) {
	data := embedded
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}
	return parse(data)
}

// rawEntry matches the on-disk array form: [uri, filename, credit] for
// audio and [uri, filename, credit, position] for video. Position may be a
// string or a number.
type rawEntry []json.RawMessage

func parse(data []byte) (*Catalog, error) {
	var file struct {
		Audio map[string]json.RawMessage `json:"audio"`
		Video map[string]json.RawMessage `json:"video"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	catalog := &Catalog{
		audio: make(map[string]Entry, len(file.Audio)),
		video: make(map[string]Entry, len(file.Video)),
	}
	if err := parseEntries(file.Audio, 3, catalog.audio); err != nil {
		return nil, err
	}
	if err := parseEntries(file.Video, 4, catalog.video); err != nil {
		return nil, err
	}
	if len(catalog.audio) == 0 || len(catalog.video) == 0 {
		return nil, fmt.Errorf("parse catalog: need at least one audio and one video entry")
	}
	return catalog, nil
}

func parseEntries(raw map[string]json.RawMessage, want int, into map[string]Entry) error {
	for name, value := range raw {
		// Annotation keys carry documentation, not entries.
		if strings.HasPrefix(name, "__") {
			continue
		}
		var fields rawEntry
		if err := json.Unmarshal(value, &fields); err != nil {
			return fmt.Errorf("parse catalog entry %q: %w", name, err)
		}
		if len(fields) < want {
			return fmt.Errorf("parse catalog entry %q: %d fields, want %d", name, len(fields), want)
		}
		entry := Entry{Name: name}
		if err := json.Unmarshal(fields[0], &entry.URI); err != nil {
			return fmt.Errorf("parse catalog entry %q uri: %w", name, err)
		}
		if err := json.Unmarshal(fields[1], &entry.Filename); err != nil {
			return fmt.Errorf("parse catalog entry %q filename: %w", name, err)
		}
		if err := json.Unmarshal(fields[2], &entry.Credit); err != nil {
			return fmt.Errorf("parse catalog entry %q credit: %w", name, err)
		}
		if want > 3 {
			entry.Position = parsePosition(fields[3])
		}
		into[strings.ToLower(name)] = entry
	}
	return nil
}

func parsePosition(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var offset float64
	if err := json.Unmarshal(raw, &offset); err == nil {
		return strconv.FormatFloat(offset, 'f', -1, 64)
	}
	return "center"
}

// Names lists the entries of one kind in sorted order.
func (c *Catalog) Names(kind Kind) []string {
	entries := c.entries(kind)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pick resolves a configured background choice. An empty or unknown choice
// falls back to a random entry of that kind. Lookup is case-insensitive.
func (c *Catalog) Pick(kind Kind, choice string, rng *rand.Rand) (Entry, error) {
	entries := c.entries(kind)
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("catalog has no %s entries", kind)
	}
	if choice != "" {
		if entry, ok := entries[strings.ToLower(choice)]; ok {
			return entry, nil
		}
	}
	names := c.Names(kind)
	return entries[names[intn(rng, len(names))]], nil
}

// Get looks up one entry by name without the random fallback.
func (c *Catalog) Get(kind Kind, name string) (Entry, bool) {
	entry, ok := c.entries(kind)[strings.ToLower(name)]
	return entry, ok
}

func (c *Catalog) entries(kind Kind) map[string]Entry {
	if kind == KindVideo {
		return c.video
	}
	return c.audio
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
