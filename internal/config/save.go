package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/ripline/internal/log"
)

// SavePrompt sets the top-level prompt in the config file.
func SavePrompt(configPath, prompt string) error {
	return saveValue(configPath, []string{"prompt"}, prompt)
}

// SaveHighlightStyle sets theme.highlight_style in the config file.
func SaveHighlightStyle(configPath, style string) error {
	if err := ValidateTheme(ThemeConfig{HighlightStyle: style}); err != nil {
		return err
	}
	return saveValue(configPath, []string{"theme", "highlight_style"}, style)
}

// SaveCompletionWords replaces completion.words in the config file.
func SaveCompletionWords(configPath string, words []string) error {
	if words == nil {
		words = []string{}
	}
	return saveValue(configPath, []string{"completion", "words"}, words)
}

// saveValue updates the value at path in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func saveValue(configPath string, path []string, value any) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: root is not a mapping")
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("building %v node: %w", path, err)
	}
	if err := setNode(doc.Content[0], path, &valueNode); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath)
		return err
	}
	log.Debug(log.CatConfig, "Saved config value", "path", configPath, "key", path)
	return nil
}

// setNode finds or creates the mapping entries along path below m and
// replaces the final value.
func setNode(m *yaml.Node, path []string, value *yaml.Node) error {
	key := path[0]
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		if len(path) == 1 {
			m.Content[i+1] = value
			return nil
		}
		child := m.Content[i+1]
		if child.Kind != yaml.MappingNode {
			// Replace a scalar or null section with an empty mapping.
			child = &yaml.Node{Kind: yaml.MappingNode}
			m.Content[i+1] = child
		}
		return setNode(child, path[1:], value)
	}

	if len(path) == 1 {
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
		return nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
	return setNode(child, path[1:], value)
}

// writeAtomic writes to a temp file, then renames it over configPath.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".ripline.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
