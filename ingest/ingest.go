// Package ingest decodes graph payloads from the formats a host can hand over:
// the JSON shape the dashboard API returns, the same shape in YAML, and
// relationship triples in CSV.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/cigraph/models"
)

// ErrUnsupportedInput is returned for input formats with no processor.
var ErrUnsupportedInput = errors.New("unsupported input format")

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph payload
	ProcessData(data []byte) (*models.GraphPayload, error)

	// GetName returns the name of the processor
	GetName() string
}

// JSONProcessor handles {nodes, edges} JSON documents
type JSONProcessor struct{}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data. Unknown fields are ignored.
func (p *JSONProcessor) ProcessData(data []byte) (*models.GraphPayload, error) {
	var payload models.GraphPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return &payload, nil
}

// YAMLProcessor handles the same document shape written as YAML
type YAMLProcessor struct{}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes YAML data
func (p *YAMLProcessor) ProcessData(data []byte) (*models.GraphPayload, error) {
	var payload models.GraphPayload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return &payload, nil
}

// CSVProcessor handles relationship triples, one per row:
// src_label,src_name,relationship,tgt_label,tgt_name. A header row is
// optional. Nodes are merged by name.
type CSVProcessor struct{}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.GraphPayload, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var triples []Triple
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "src_label") {
			continue
		}
		t := Triple{
			SourceLabel:  strings.TrimSpace(row[0]),
			SourceName:   strings.TrimSpace(row[1]),
			Relationship: strings.TrimSpace(row[2]),
			TargetLabel:  strings.TrimSpace(row[3]),
			TargetName:   strings.TrimSpace(row[4]),
		}
		if t.SourceName == "" || t.TargetName == "" {
			return nil, fmt.Errorf("CSV row %d: source and target names are required", line)
		}
		triples = append(triples, t)
	}
	return FromTriples(triples), nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return &JSONProcessor{}, nil
	case "yaml", "yml":
		return &YAMLProcessor{}, nil
	case "csv":
		return &CSVProcessor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, format)
	}
}

// FormatFromPath infers the input format from the file extension.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode reads a payload in the given format.
func Decode(r io.Reader, format string) (*models.GraphPayload, error) {
	processor, err := GetProcessor(format)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return processor.ProcessData(data)
}

// LoadFile reads and decodes a payload file, choosing the processor by
// extension.
func LoadFile(path string) (*models.GraphPayload, error) {
	processor, err := GetProcessor(FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	payload, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return payload, nil
}

// WriteJSON encodes a payload as indented JSON.
func WriteJSON(w io.Writer, payload *models.GraphPayload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
