package countries

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/countries.yaml
var dataFS embed.FS

const defaultListPath = "data/countries.yaml"

var (
	defaultOnce    sync.Once
	defaultEntries []Entry
	defaultErr     error
)

// ErrEmptyDataset is returned when a dataset document holds no entries.
var ErrEmptyDataset = errors.New("countries: dataset is empty")

// Default returns a copy of the built-in dataset. The embedded document is
// decoded on first use only.
func Default() ([]Entry, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		entries, err := Load(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultEntries = entries
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return Clone(defaultEntries), nil
}

// MustDefault is Default for init-time wiring; it panics if the embedded
// dataset cannot be decoded.
func MustDefault() []Entry {
	entries, err := Default()
	if err != nil {
		panic(err)
	}
	return entries
}

// Load decodes a YAML list of entries. Entries keep document order, notes are
// derived from names and region tags are normalised.
func Load(r io.Reader) ([]Entry, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	var raw []Entry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("countries: decode dataset: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDataset
	}

	entries := make([]Entry, 0, len(raw))
	for i, entry := range raw {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("countries: entry %d has no name", i)
		}
		region, _ := ParseRegion(string(entry.Region))
		if region == RegionAll {
			return nil, fmt.Errorf("countries: entry %q uses reserved region %q", name, RegionAll)
		}
		entries = append(entries, Entry{
			Name:        name,
			VisaType:    strings.TrimSpace(entry.VisaType),
			SuccessRate: strings.TrimSpace(entry.SuccessRate),
			Region:      region,
			Note:        EmbassyNote(name),
			Link:        strings.TrimSpace(entry.Link),
		})
	}
	return entries, nil
}

// Clone returns a shallow copy of entries; Entry holds only strings so the
// copy is fully independent.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	return append([]Entry{}, entries...)
}
