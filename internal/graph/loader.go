// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadModules reads a list of module records from a .json, .yaml or .yml file.
func LoadModules(path string) ([]Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ext string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		ext = "yaml"
	default:
		ext = "json"
	}
	return ParseModules(data, ext)
}

// ParseModules decodes records in the given format ("json" or "yaml").
// Values may be strings, numbers or null; numbers keep their integer form and
// null or NaN becomes empty.
func ParseModules(data []byte, format string) ([]Module, error) {
	var raw []map[string]any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse module YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse module JSON: %w", err)
		}
	}

	modules := make([]Module, 0, len(raw))
	for i, rec := range raw {
		m := Module{
			ID:                    text(rec["module_id"]),
			Name:                  text(rec["module_name"]),
			Type:                  text(rec["type"]),
			ECTS:                  text(rec["ects"]),
			Aim:                   text(rec["aim"]),
			Literature:            text(rec["literature"]),
			AssessmentForm:        text(rec["assessment_form"]),
			AdmissionRequirements: text(rec["admission_requirements"]),
			AssessmentDuration:    text(rec["assessment_duration"]),
			Language:              text(rec["language"]),
			RecommendedSemester:   text(rec["recommended_semester"]),
			Level:                 text(rec["level"]),
			Offering:              text(rec["offering"]),
			Prerequisites:         text(rec["prerequisites"]),
			FurtherModule:         text(rec["further_module"]),
			ApplicationRange:      text(rec["application_range"]),
			Lecturer:              text(rec["lecturer"]),
			PersonInCharge:        text(rec["person_in_charge"]),
		}
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("record %d: module_id is required", i)
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// LoadInto converts modules to triples and inserts them. It returns the number
// of triples produced.
func LoadInto(ctx context.Context, store Store, modules []Module) (int, error) {
	var triples []Triple
	for _, m := range modules {
		triples = append(triples, BuildTriples(m)...)
	}
	if err := store.Insert(ctx, triples); err != nil {
		return 0, err
	}
	return len(triples), nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return integerLexical(x.String())
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ";")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
