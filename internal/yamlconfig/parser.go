// Package yamlconfig parses YAML command documents into config.Model.
//
//	serverUri: http://tfs:8080/tfs/DefaultCollection
//	commands:
//	  - type: github.com/.../commentsearch.Searcher
//	    alias: find
//	    properties:
//	      type: github.com/.../commentsearch.Settings
//	      values:
//	        ProjectPath: $/product1/branch1
//	        ExcludeOwners: [build, robot]
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

type document struct {
	ServerURI string         `yaml:"serverUri"`
	Commands  []commandEntry `yaml:"commands"`
}

type commandEntry struct {
	Type       string           `yaml:"type"`
	Alias      string           `yaml:"alias"`
	Properties *propertiesEntry `yaml:"properties"`
	Line       int              `yaml:"-"`
}

type propertiesEntry struct {
	Type   string    `yaml:"type"`
	Values yaml.Node `yaml:"values"`
}

// UnmarshalYAML records the line of the entry for error messages. Decoding
// through node.Decode does not inherit the decoder's KnownFields setting, so
// the keys of the entry and of its properties are checked here.
func (c *commandEntry) UnmarshalYAML(node *yaml.Node) error {
	if err := knownKeys(node, "type", "alias", "properties"); err != nil {
		return err
	}
	if props := mappingValue(node, "properties"); props != nil {
		if err := knownKeys(props, "type", "values"); err != nil {
			return err
		}
	}
	type plain commandEntry
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Line = node.Line
	return nil
}

// knownKeys fails on the first key of a mapping node that is not allowed.
// Other node kinds are left to the decoder to reject.
func knownKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown field '%s'", key.Line, key.Value)
		}
	}
	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Parser is the YAML implementation of config.Parser.
type Parser struct{}

// NewParser creates a new YAML parser.
func NewParser() *Parser {
	return &Parser{}
}

// Extensions implements config.Parser.
func (p *Parser) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Parse implements config.Parser.
func (p *Parser) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	logger.Debug("YAML parser started.")

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}

	model := &config.Model{ServerURI: doc.ServerURI}
	for _, entry := range doc.Commands {
		where := fmt.Sprintf("%s:%d", filename, entry.Line)
		def, err := translateCommand(entry, where)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		model.Commands = append(model.Commands, def)
	}

	logger.Debug("YAML parsing complete.", "commands", len(model.Commands))
	return model, nil
}

func translateCommand(entry commandEntry, where string) (*config.CommandDefinition, error) {
	def := &config.CommandDefinition{
		HandlerType: strings.TrimSpace(entry.Type),
		Alias:       entry.Alias,
		Source:      where,
	}
	if def.HandlerType == "" {
		return nil, errors.New("command type undefined")
	}
	if entry.Properties == nil {
		return nil, fmt.Errorf("command '%s' has no properties block", def.HandlerType)
	}
	def.SettingsType = strings.TrimSpace(entry.Properties.Type)
	if def.SettingsType == "" {
		return nil, errors.New("properties type undefined")
	}

	props, err := extractValues(&entry.Properties.Values)
	if err != nil {
		return nil, fmt.Errorf("command '%s': %w", def.HandlerType, err)
	}
	def.Properties = props
	return def, nil
}

// extractValues walks the values mapping in document order.
func extractValues(node *yaml.Node) (*config.Properties, error) {
	props := config.NewProperties()
	if node.Kind == 0 || isNull(node) {
		return props, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: values must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value
		if props.Has(name) {
			return nil, fmt.Errorf("line %d: duplicate property '%s'", key.Line, name)
		}

		switch value.Kind {
		case yaml.ScalarNode:
			if isNull(value) {
				continue
			}
			props.Set(name, value.Value)
		case yaml.SequenceNode:
			items := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: property '%s' may only hold scalar items", item.Line, name)
				}
				items = append(items, item.Value)
			}
			props.Set(name, items)
		default:
			return nil, fmt.Errorf("line %d: property '%s' must be a scalar or a list", value.Line, name)
		}
	}
	return props, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
