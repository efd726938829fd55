package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Output location relative to the project root.
const (
	OutputDir = "public/swagger"
	JSONFile  = "swagger.json"
	YAMLFile  = "swagger.yaml"
)

// JSONPath returns the document path under root.
func JSONPath(root string) string {
	return OutputPath(root, JSONFile)
}

// OutputPath returns the path of name in the output directory under root.
func OutputPath(root, name string) string {
	return filepath.Join(root, OutputDir, name)
}

// Marshal renders doc as indented JSON.
func Marshal(doc *openapi3.T) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// MarshalYAML renders doc as block-style YAML keeping the JSON key order.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert document to yaml: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal yaml: %w", err)
	}
	return out, nil
}

// blockStyle clears the flow style inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Write replaces the document under root, plus a YAML copy when withYAML
// is set. It returns the written paths.
func Write(doc *openapi3.T, root string, withYAML bool) ([]string, error) {
	dir := filepath.Join(root, OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := Marshal(doc)
	if err != nil {
		return nil, err
	}
	jsonPath := filepath.Join(dir, JSONFile)
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	written := []string{jsonPath}

	if withYAML {
		data, err := MarshalYAML(doc)
		if err != nil {
			return written, err
		}
		yamlPath := filepath.Join(dir, YAMLFile)
		if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", yamlPath, err)
		}
		written = append(written, yamlPath)
	}
	return written, nil
}
