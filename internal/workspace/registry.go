package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// registry is the on-disk list of tags created through CreateTag.
type registry struct {
	Tags []string `json:"tags,omitempty"`
}

func registryPath(root string) string {
	return filepath.Join(root, managedDirName, "tags.json")
}

// loadRegistry reads the tag registry. A missing file is an empty registry.
func loadRegistry(root string) (registry, error) {
	path := registryPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return registry{}, nil
		}
		return registry{}, fmt.Errorf("read tag registry %q: %w", path, err)
	}
	var reg registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return registry{}, fmt.Errorf("parse tag registry %q: %w", path, err)
	}
	reg.Tags = normalizeTagList(reg.Tags)
	return reg, nil
}

// add registers title and reports whether it was new.
func (r *registry) add(title string) bool {
	for _, existing := range r.Tags {
		if existing == title {
			return false
		}
	}
	r.Tags = append(r.Tags, title)
	sort.Strings(r.Tags)
	return true
}

func (r registry) save(root string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := registryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create tag registry dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write tag registry: %w", err)
	}
	return nil
}
