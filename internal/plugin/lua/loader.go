package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers handler scripts on disk.
type Loader struct {
	// Search paths, checked in order
	paths []string
	opts  []StateOption
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// WithStateOptions sets the options every loaded handler's state gets.
func WithStateOptions(opts ...StateOption) LoaderOption {
	return func(l *Loader) {
		l.opts = opts
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{paths: DefaultPaths()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPaths returns the user and project handler directories.
func DefaultPaths() []string {
	paths := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "proseline", "handlers"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".proseline", "handlers"))
	}
	return paths
}

// Paths returns the search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Discover returns the .lua files in the search paths sorted by base
// name. When two paths hold the same name the earlier path wins. Missing
// directories are skipped.
func (l *Loader) Discover() ([]string, error) {
	found := make(map[string]string)
	for _, dir := range l.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("discover %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".lua")
			if _, exists := found[name]; !exists {
				found[name] = filepath.Join(dir, e.Name())
			}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, found[name])
	}
	return files, nil
}

// Load loads every discovered script. Scripts that fail to load are
// reported in the joined error; the rest are still returned.
func (l *Loader) Load() ([]*Handler, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	var handlers []*Handler
	var errs []error
	for _, path := range files {
		h, err := LoadFile(path, l.opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		handlers = append(handlers, h)
	}
	return handlers, errors.Join(errs...)
}
