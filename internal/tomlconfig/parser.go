// Package tomlconfig parses TOML command documents into config.Model.
//
//	server_uri = "http://tfs:8080/tfs/DefaultCollection"
//
//	[[command]]
//	type  = "github.com/.../commentsearch.Searcher"
//	alias = "find"
//
//	[command.properties]
//	type = "github.com/.../commentsearch.Settings"
//
//	[command.properties.values]
//	ProjectPath   = "$/product1/branch1"
//	ExcludeOwners = ["build", "robot"]
//
// TOML tables are unordered, so properties are recorded in sorted key order.
package tomlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
)

type document struct {
	ServerURI string         `toml:"server_uri"`
	Commands  []commandEntry `toml:"command"`
}

type commandEntry struct {
	Type       string           `toml:"type"`
	Alias      string           `toml:"alias"`
	Properties *propertiesEntry `toml:"properties"`
}

type propertiesEntry struct {
	Type   string         `toml:"type"`
	Values map[string]any `toml:"values"`
}

// ParseError describes a document that is not valid TOML.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(path string, err error) *ParseError {
	perr := &ParseError{Path: path, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
		perr.Line, perr.Column = derr.Position()
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		first := &serr.Errors[0]
		perr.Line, perr.Column = first.Position()
		perr.Message = fmt.Sprintf("unknown field '%s'", strings.Join(first.Key(), "."))
	}
	return perr
}

// Parser is the TOML implementation of config.Parser.
type Parser struct{}

// NewParser creates a new TOML parser.
func NewParser() *Parser {
	return &Parser{}
}

// Extensions implements config.Parser.
func (p *Parser) Extensions() []string {
	return []string{".toml"}
}

// Parse implements config.Parser.
func (p *Parser) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	logger.Debug("TOML parser started.")

	var doc document
	dec := toml.NewDecoder(bytes.NewReader(src)).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, newParseError(filename, err)
	}

	model := &config.Model{ServerURI: doc.ServerURI}
	for i, entry := range doc.Commands {
		where := fmt.Sprintf("%s:command[%d]", filename, i)
		def, err := translateCommand(entry, where)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		model.Commands = append(model.Commands, def)
	}

	logger.Debug("TOML parsing complete.", "commands", len(model.Commands))
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
		return nil, fmt.Errorf("command '%s' has no properties table", def.HandlerType)
	}
	def.SettingsType = strings.TrimSpace(entry.Properties.Type)
	if def.SettingsType == "" {
		return nil, errors.New("properties type undefined")
	}

	raw := make(map[string]any, len(entry.Properties.Values))
	for name, value := range entry.Properties.Values {
		v, err := rawValue(value)
		if err != nil {
			return nil, fmt.Errorf("command '%s': property '%s': %w", def.HandlerType, name, err)
		}
		raw[name] = v
	}
	def.Properties = config.PropertiesFromMap(raw)
	return def, nil
}

// rawValue flattens a decoded TOML value to a string or a []string.
func rawValue(value any) (any, error) {
	if items, ok := value.([]any); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, err := scalarText(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return scalarText(value)
}

func scalarText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case toml.LocalDate:
		return v.String(), nil
	case toml.LocalTime:
		return v.String(), nil
	case toml.LocalDateTime:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
