package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteDefaultConfig writes a commented starter config file at path.
// Returns an error if the file already exists.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config: %w", err)
	}

	defaults := Defaults()
	doc := yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{
			{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					scalarWithComment("data_path", "CSV or JSON file to load diagnostics data from"),
					{Kind: yaml.ScalarNode, Value: defaults.DataPath},
					scalarWithComment("auto_refresh", "Re-run diagnostics when the data file changes"),
					boolNode(defaults.AutoRefresh),
					scalarWithComment("debounce_ms", "Delay before reacting to a file change burst"),
					intNode(defaults.DebounceMS),
					scalarWithComment("history", "Run history persistence"),
					mappingNode(
						"enabled", boolNode(defaults.History.Enabled),
						"path", &yaml.Node{Kind: yaml.ScalarNode, Value: defaults.History.Path},
					),
					scalarWithComment("ui", "Dashboard appearance"),
					mappingNode(
						"markdown_style", &yaml.Node{Kind: yaml.ScalarNode, Value: defaults.UI.MarkdownStyle},
						"show_details", boolNode(defaults.UI.ShowDetails),
					),
					scalarWithComment("theme", "Status colors (hex)"),
					mappingNode(
						"pass_color", quotedNode(defaults.Theme.PassColor),
						"fail_color", quotedNode(defaults.Theme.FailColor),
						"warning_color", quotedNode(defaults.Theme.WarningColor),
						"error_color", quotedNode(defaults.Theme.ErrorColor),
					),
				},
			},
		},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(path, buf.Bytes())
}

func scalarWithComment(key, comment string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: comment}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", v)}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v)}
}

func quotedNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: v}
}

func mappingNode(pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(pairs)-1; i += 2 {
		key := pairs[i].(string)
		value := pairs[i+1].(*yaml.Node)
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}
	return node
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".diagdash.yaml.tmp.*")
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

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
