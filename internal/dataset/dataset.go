// Package dataset loads the on-disk inputs of a tuning run: the DAG
// summary, the per-element execution-property observations, the optional
// cluster resource description, and the trained tree dumps.
//
// Loading is fail-fast: malformed input files are fatal (there is no
// fallback recommendation to produce from bad data). Files are always read
// in sorted name order so feature-id assignment is reproducible.
package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/yunseong/proptune/internal/ep"
	"github.com/yunseong/proptune/internal/feature"
)

// Summary is the DAG summary produced by the dataflow engine. Consumed for
// display only; it never influences recommendation derivation.
type Summary struct {
	JobID       string `json:"job_id"`
	VertexCount int    `json:"vertex_count"`
	EdgeCount   int    `json:"edge_count"`
}

// ResourceSpec is one entry of the cluster resource description. Display
// only, like Summary.
type ResourceSpec struct {
	Type     string `json:"type"`
	MemoryMB int    `json:"memory_mb"`
	Capacity int    `json:"capacity"`
}

// elementFile mirrors one property-observation JSON file.
type elementFile struct {
	ID         int    `json:"ID"`
	Type       string `json:"type"`
	Properties []struct {
		Key        string   `json:"key"`
		Candidates []string `json:"candidates,omitempty"`
	} `json:"properties"`
}

// Dataset is the loaded, validated input of one tuning run.
type Dataset struct {
	// Summary is nil when no summary file was given.
	Summary *Summary

	// Registry holds the feature-id assignment built from the property
	// directory.
	Registry *feature.Registry

	// Resources is empty when no resource-info file was given.
	Resources []ResourceSpec
}

// Load reads the property directory (required) plus the optional summary
// and resource-info files. An empty path skips the optional inputs.
func Load(summaryPath, propertyDir, resourcePath string) (*Dataset, error) {
	ds := &Dataset{Registry: feature.NewRegistry()}

	if summaryPath != "" {
		summary, err := loadSummary(summaryPath)
		if err != nil {
			return nil, err
		}
		ds.Summary = summary
	}

	if err := loadPropertyDir(ds.Registry, propertyDir); err != nil {
		return nil, err
	}

	if resourcePath != "" {
		resources, err := loadResourceInfo(resourcePath)
		if err != nil {
			return nil, err
		}
		ds.Resources = resources
	}

	slog.Debug("dataset loaded",
		"features", ds.Registry.Size(), "resources", len(ds.Resources))
	return ds, nil
}

func loadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DAG summary: %w", err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parsing DAG summary %s: %w", path, err)
	}
	return &summary, nil
}

// loadPropertyDir reads every *.json file of the property directory in
// sorted name order and registers one feature per (element, property) pair.
func loadPropertyDir(registry *feature.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading property directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return fmt.Errorf("no property files in %s", dir)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading property file: %w", err)
		}
		if err := validateElement(path, data); err != nil {
			return err
		}

		var element elementFile
		if err := json.Unmarshal(data, &element); err != nil {
			return fmt.Errorf("parsing property file %s: %w", path, err)
		}

		for _, prop := range element.Properties {
			registry.Register(ep.KeyPair{
				VertexID:     element.ID,
				QualifiedKey: prop.Key,
				Pattern:      element.Type,
			})
			if len(prop.Candidates) > 0 {
				registry.RegisterCandidates(prop.Key, prop.Candidates)
			}
		}
		slog.Debug("property file loaded", "file", name, "element_id", element.ID, "properties", len(element.Properties))
	}
	return nil
}

func loadResourceInfo(path string) ([]ResourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resource info: %w", err)
	}
	var resources []ResourceSpec
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("parsing resource info %s: %w", path, err)
	}
	return resources, nil
}
