// Package registry supplies the shop → category mapping consulted during
// categorization. The registry is an external collaborator: the core only
// reads an already-flattened snapshot of it.
package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps one shop name to its category and optional subcategory.
type Entry struct {
	Shop        string `yaml:"shop" json:"shop"`
	Category    string `yaml:"category" json:"category"`
	Subcategory string `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
}

// Provider returns the registry snapshot used for a whole batch. The entry
// order is significant: the substring categorizer takes the first match, so
// implementations must not re-sort entries.
type Provider interface {
	List(ctx context.Context) ([]Entry, error)
}

// Static is a fixed in-memory registry.
type Static []Entry

// List returns the entries as-is.
func (s Static) List(_ context.Context) ([]Entry, error) {
	return s, nil
}

// FileProvider loads the registry from a YAML or CSV file on every call, so
// edits to the file are picked up by the next batch.
type FileProvider struct {
	Path string
}

// List reads and decodes the registry file.
func (p *FileProvider) List(_ context.Context) ([]Entry, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("reading shop registry: %w", err)
	}

	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".csv":
		return parseCSV(data)
	default:
		return nil, fmt.Errorf("unsupported registry format %q (want .yaml or .csv)", filepath.Ext(p.Path))
	}
}

func parseYAML(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding shop registry YAML: %w", err)
	}
	return entries, nil
}

// parseCSV expects shop,category[,subcategory] columns. A first row whose
// first cell reads "shop" is treated as a header and skipped.
func parseCSV(data []byte) ([]Entry, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding shop registry CSV: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "shop") {
			continue
		}
		e := Entry{
			Shop:     strings.TrimSpace(rec[0]),
			Category: strings.TrimSpace(rec[1]),
		}
		if len(rec) > 2 {
			e.Subcategory = strings.TrimSpace(rec[2])
		}
		if e.Shop == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
