package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

//go:embed *.yaml
var LevelsFS embed.FS

// DiskDir overrides embedded levels when present, for editing without a
// rebuild.
const DiskDir = "levels"

// Source yields level descriptors by id.
type Source interface {
	Load(id string) (*Descriptor, error)
}

type Entry struct {
	ID    string
	Name  string
	Order int
}

// Catalog reads levels from an fs, preferring copies in an optional disk
// directory.
type Catalog struct {
	fsys fs.FS
	disk string
}

func NewCatalog(fsys fs.FS, diskDir string) *Catalog {
	return &Catalog{fsys: fsys, disk: diskDir}
}

// Default is the embedded catalog with the levels/ disk override.
func Default() *Catalog {
	return NewCatalog(LevelsFS, DiskDir)
}

func (c *Catalog) read(id string) ([]byte, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	name := id + ".yaml"
	if c.disk != "" {
		if data, err := os.ReadFile(path.Join(c.disk, name)); err == nil {
			return data, nil
		}
	}
	data, err := fs.ReadFile(c.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", id, err)
	}
	return data, nil
}

func (c *Catalog) Load(id string) (*Descriptor, error) {
	data, err := c.read(id)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", id, err)
	}
	if d.ID != id {
		return nil, fmt.Errorf("levels: load %s: %w: file declares id %q", id, ErrInvalidLevel, d.ID)
	}
	return d, nil
}

// List returns every loadable level ordered for the level select screen.
// Levels that fail to load are skipped and reported in the error.
func (c *Catalog) List() ([]Entry, error) {
	matches, err := fs.Glob(c.fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	var (
		entries []Entry
		errs    []error
	)
	for _, m := range matches {
		id := strings.TrimSuffix(m, ".yaml")
		d, err := c.Load(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, Entry{ID: d.ID, Name: d.Name, Order: d.Order})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, multierr.Combine(errs...)
}
