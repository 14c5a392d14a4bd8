// Package input reads recorded reference sequences from disk.
//
// Two formats are accepted: JSON documents, validated against an embedded
// JSON Schema before decoding, and YAML documents with the same shape.
// Schema validation catches malformed recordings (missing timings, wrong
// types, fewer than two samples) with precise pointer paths; semantic
// checks such as monotonicity stay with internal/validate.
package input

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaName = "sequence.schema.json"

// sequenceSchema is compiled once at init; the embedded schema is trusted.
var sequenceSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("input: add embedded schema: %v", err))
	}
	return compiler.MustCompile(schemaName)
}

// Document is a recorded reference sequence.
type Document struct {
	// Name labels the recording (subject, session, block).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// SampleRate is the acquisition rate in Hz, informational only.
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`

	// Timings are the timestamps at which an R-peak occurred, in seconds.
	Timings []float64 `json:"timings" yaml:"timings"`
}

// ReadFile reads a reference sequence document, dispatching on the file
// extension: .json (schema-validated) or .yaml/.yml.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read sequence file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return Document{}, fmt.Errorf("unsupported sequence file extension %q (want .json, .yaml or .yml)", ext)
	}
}

func decodeJSON(data []byte) (Document, error) {
	// Validate against the schema on a generic decode first, so schema
	// errors carry JSON pointer paths instead of Go type mismatches.
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("parse sequence file: %w", err)
	}
	if err := sequenceSchema.Validate(raw); err != nil {
		return Document{}, fmt.Errorf("sequence file failed schema validation: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode sequence file: %w", err)
	}
	return doc, nil
}

func decodeYAML(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode sequence file: %w", err)
	}
	if len(doc.Timings) < 2 {
		return Document{}, fmt.Errorf("sequence file must contain at least 2 timings, got %d", len(doc.Timings))
	}
	return doc, nil
}
