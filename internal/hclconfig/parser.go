package hclconfig

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyconvert "github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Parser is the HCL implementation of config.Parser.
type Parser struct{}

// NewParser creates a new HCL parser.
func NewParser() *Parser {
	return &Parser{}
}

// Extensions implements config.Parser.
func (p *Parser) Extensions() []string {
	return []string{".hcl"}
}

// Parse implements config.Parser.
func (p *Parser) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	logger.Debug("HCL parser started.")

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := &config.Model{}
	if root.ServerURI != nil {
		model.ServerURI = *root.ServerURI
	}
	for _, block := range root.Commands {
		def, err := translateCommand(ctx, block)
		if err != nil {
			return nil, err
		}
		model.Commands = append(model.Commands, def)
	}

	logger.Debug("HCL parsing complete.", "commands", len(model.Commands))
	return model, nil
}

// translateCommand converts one command block into the agnostic model.
func translateCommand(ctx context.Context, block *commandBlock) (*config.CommandDefinition, error) {
	source := block.Remain.MissingItemRange()
	where := fmt.Sprintf("%s:%d", source.Filename, source.Start.Line)

	def := &config.CommandDefinition{
		HandlerType: strings.TrimSpace(block.Type),
		Source:      where,
	}
	if block.Alias != nil {
		def.Alias = *block.Alias
	}
	if def.HandlerType == "" {
		return nil, fmt.Errorf("%s: command type undefined", where)
	}
	if err := rejectUnknown(block.Remain); err != nil {
		return nil, fmt.Errorf("%s: command '%s': %w", where, def.HandlerType, err)
	}

	switch len(block.Properties) {
	case 0:
		return nil, fmt.Errorf("%s: command '%s' has no properties block", where, def.HandlerType)
	case 1:
	default:
		return nil, fmt.Errorf("%s: command '%s' has more than one properties block", where, def.HandlerType)
	}

	props := block.Properties[0]
	def.SettingsType = strings.TrimSpace(props.Type)
	if def.SettingsType == "" {
		return nil, fmt.Errorf("%s: properties type undefined", where)
	}

	values, err := extractProperties(ctx, props.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: command '%s': %w", where, def.HandlerType, err)
	}
	def.Properties = values
	return def, nil
}

// rejectUnknown fails on any attribute or block of a command that the schema
// does not declare.
func rejectUnknown(remain hcl.Body) error {
	attrs, diags := remain.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("unrecognized attribute '%s'", strings.Join(names, "', '"))
}

// extractProperties evaluates every attribute of the body in source order.
func extractProperties(ctx context.Context, body hcl.Body) (*config.Properties, error) {
	logger := ctxlog.FromContext(ctx)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	props := config.NewProperties()
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for property '%s': %w", attr.Name, diags)
		}
		if val.IsNull() {
			logger.Debug("Skipping null property.", "property", attr.Name)
			continue
		}
		raw, err := rawValue(val)
		if err != nil {
			return nil, fmt.Errorf("property '%s': %w", attr.Name, err)
		}
		props.Set(attr.Name, raw)
	}
	return props, nil
}

// rawValue flattens a cty value to the raw forms the mapper understands.
func rawValue(val cty.Value) (any, error) {
	ty := val.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		list, err := ctyconvert.Convert(val, cty.List(cty.String))
		if err != nil {
			return nil, fmt.Errorf("list elements must be primitive: %w", err)
		}
		var out []string
		if err := gocty.FromCtyValue(list, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}

	str, err := ctyconvert.Convert(val, cty.String)
	if err != nil {
		return nil, fmt.Errorf("value of type %s is not supported", ty.FriendlyName())
	}
	return str.AsString(), nil
}
