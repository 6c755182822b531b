package envconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader produces the raw INI payloads merged into the store, in order.
// Later payloads override earlier ones key by key.
type Loader interface {
	Load(ctx context.Context) ([][]byte, error)
}

// FileLoader reads a single configuration file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) ([][]byte, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.Path, err)
	}
	return [][]byte{data}, nil
}

// DirLoader reads every configuration file of a directory in sorted name
// order, so numbered files layer predictably (00-base.ini, 10-prod.ini).
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(_ context.Context) ([][]byte, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", l.Dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isConfigFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	payloads := make([][]byte, 0, len(names))
	for _, name := range names {
		path := filepath.Join(l.Dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		payloads = append(payloads, data)
	}
	return payloads, nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ini", ".cfg", ".conf":
		return true
	}
	return false
}

// StaticLoader serves fixed in-memory payloads.
type StaticLoader [][]byte

func (l StaticLoader) Load(_ context.Context) ([][]byte, error) {
	return l, nil
}

// MultiLoader concatenates the payloads of several loaders in order.
type MultiLoader []Loader

func (l MultiLoader) Load(ctx context.Context) ([][]byte, error) {
	var payloads [][]byte
	for _, loader := range l {
		p, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p...)
	}
	return payloads, nil
}
