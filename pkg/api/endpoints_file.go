package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// endpointsFile is the on-disk shape of an endpoint override file:
//
//	endpoints:
//	  notifications:
//	    markRead: /notifications/{id}/mark-read
type endpointsFile struct {
	Endpoints map[string]map[string]string `json:"endpoints" yaml:"endpoints"`
}

// LoadEndpoints reads a YAML/JSON override file and merges it over DefaultEndpoints.
// An empty path yields the defaults.
func LoadEndpoints(path string) (Endpoints, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultEndpoints(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Endpoints{}, fmt.Errorf("read endpoints file: %w", err)
	}

	file, err := parseEndpointsFile(raw, filepath.Ext(path))
	if err != nil {
		return Endpoints{}, err
	}
	return MergeEndpoints(DefaultEndpoints(), file.Endpoints)
}

// MergeEndpoints applies area -> name -> path overrides on top of base.
// Routes that are parameterized in base must be given as {id} patterns.
func MergeEndpoints(base Endpoints, overrides map[string]map[string]string) (Endpoints, error) {
	areas := make([]string, 0, len(overrides))
	for area := range overrides {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	out := base
	for _, area := range areas {
		for name, raw := range overrides[area] {
			key := strings.TrimSpace(area) + "." + strings.TrimSpace(name)
			current, ok := out.Lookup(key)
			if !ok {
				return Endpoints{}, fmt.Errorf("%w: %q", ErrUnknownEndpoint, key)
			}

			value := strings.TrimSpace(raw)
			if value == "" {
				return Endpoints{}, fmt.Errorf("%w: endpoint %s has an empty path", ErrInvalidConfig, key)
			}

			tmpl := Literal(value)
			if current.IsParameterized() {
				p, err := Pattern(value)
				if err != nil {
					return Endpoints{}, fmt.Errorf("endpoint %s: %w", key, err)
				}
				tmpl = p
			}

			next, err := out.With(key, tmpl)
			if err != nil {
				return Endpoints{}, err
			}
			out = next
		}
	}

	if err := out.Validate(); err != nil {
		return Endpoints{}, err
	}
	return out, nil
}

func parseEndpointsFile(data []byte, ext string) (endpointsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file endpointsFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return endpointsFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}
