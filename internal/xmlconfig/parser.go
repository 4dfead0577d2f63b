package xmlconfig

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
)

const (
	elemCommands   = "commands"
	elemCommand    = "command"
	elemProperties = "properties"

	attrServerURI = "ServerUri"
	attrType      = "Type"
	attrAlias     = "Alias"
)

// Parser is the XML implementation of config.Parser.
type Parser struct {
	section string
}

// NewParser creates a parser reading the named section. An empty name
// selects config.DefaultSection.
func NewParser(section string) *Parser {
	if section == "" {
		section = config.DefaultSection
	}
	return &Parser{section: section}
}

// Extensions implements config.Parser.
func (p *Parser) Extensions() []string {
	return []string{".xml", ".config"}
}

// Parse implements config.Parser.
func (p *Parser) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename, "section", p.section)
	logger.Debug("XML parser started.")

	r := &reader{
		dec:      xml.NewDecoder(bytes.NewReader(src)),
		src:      src,
		filename: filename,
	}

	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("section <%s> not found", p.section)
		}
		if err != nil {
			return nil, r.syntaxError(err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != p.section {
			continue
		}

		model, err := r.section(start)
		if err != nil {
			return nil, err
		}
		logger.Debug("XML parsing complete.", "commands", len(model.Commands))
		return model, nil
	}
}

// reader walks the token stream. It keeps the raw source so that inner
// markup can be captured byte for byte.
type reader struct {
	dec      *xml.Decoder
	src      []byte
	filename string
}

func (r *reader) position() string {
	line, col := r.dec.InputPos()
	return fmt.Sprintf("%s:%d:%d", r.filename, line, col)
}

func (r *reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", r.position(), fmt.Sprintf(format, args...))
}

func (r *reader) syntaxError(err error) error {
	return fmt.Errorf("%s: malformed XML: %w", r.filename, err)
}

// next returns the next token together with the offset at which it began.
func (r *reader) next() (xml.Token, int64, error) {
	before := r.dec.InputOffset()
	tok, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, before, r.syntaxError(err)
	}
	return tok, before, nil
}

func (r *reader) section(start xml.StartElement) (*config.Model, error) {
	model := &config.Model{}
	seenCommands := false

	for {
		tok, _, err := r.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemCommands {
				if err := r.dec.Skip(); err != nil {
					return nil, r.syntaxError(err)
				}
				continue
			}
			if seenCommands {
				return nil, r.errorf("element <%s> may only appear once", elemCommands)
			}
			seenCommands = true
			if err := r.commands(t, model); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return model, nil
		}
	}
}

func (r *reader) commands(start xml.StartElement, model *config.Model) error {
	attrs, err := r.attributes(start, attrServerURI)
	if err != nil {
		return err
	}
	model.ServerURI = attrs[attrServerURI]

	for {
		tok, _, err := r.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemCommand {
				return r.errorf("unrecognized element '%s'", t.Name.Local)
			}
			def, err := r.command(t)
			if err != nil {
				return err
			}
			model.Commands = append(model.Commands, def)
		case xml.EndElement:
			return nil
		}
	}
}

func (r *reader) command(start xml.StartElement) (*config.CommandDefinition, error) {
	source := r.position()
	attrs, err := r.attributes(start, attrType, attrAlias)
	if err != nil {
		return nil, err
	}
	def := &config.CommandDefinition{
		HandlerType: strings.TrimSpace(attrs[attrType]),
		Alias:       attrs[attrAlias],
		Source:      source,
	}
	if def.HandlerType == "" {
		return nil, r.errorf("command type undefined")
	}

	for {
		tok, _, err := r.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemProperties {
				return nil, r.errorf("unrecognized element '%s' in command '%s'", t.Name.Local, def.HandlerType)
			}
			if def.Properties != nil {
				return nil, r.errorf("command '%s' has more than one <%s> block", def.HandlerType, elemProperties)
			}
			if err := r.properties(t, def); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if def.Properties == nil {
				return nil, fmt.Errorf("%s: command '%s' has no <%s> block", source, def.HandlerType, elemProperties)
			}
			return def, nil
		}
	}
}

// properties captures every named, non-empty child as one raw property
// until the matching </properties>.
func (r *reader) properties(start xml.StartElement, def *config.CommandDefinition) error {
	attrs, err := r.attributes(start, attrType)
	if err != nil {
		return err
	}
	def.SettingsType = strings.TrimSpace(attrs[attrType])
	if def.SettingsType == "" {
		return r.errorf("properties type undefined")
	}
	props := config.NewProperties()

	for {
		tok, before, err := r.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if r.selfClosing(before) {
				// The decoder synthesizes the matching end element.
				if _, _, err := r.next(); err != nil {
					return err
				}
				continue
			}
			value, err := r.inner()
			if err != nil {
				return err
			}
			if props.Has(name) {
				return r.errorf("duplicate property '%s' in settings of '%s'", name, def.HandlerType)
			}
			props.Set(name, value)
		case xml.EndElement:
			def.Properties = props
			return nil
		}
	}
}

// selfClosing reports whether the start element that began at offset was
// written as <name/>.
func (r *reader) selfClosing(offset int64) bool {
	raw := bytes.TrimRight(r.src[offset:r.dec.InputOffset()], " \t\r\n")
	return bytes.HasSuffix(raw, []byte("/>"))
}

// inner consumes the content of the element just opened, up to and
// including its end element. Pure text is returned unescaped; anything
// containing elements is returned as the verbatim source markup.
func (r *reader) inner() (string, error) {
	innerStart := r.dec.InputOffset()
	var (
		text        strings.Builder
		hasElements bool
		depth       = 1
	)
	for {
		tok, before, err := r.next()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			hasElements = true
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				if hasElements {
					return string(r.src[innerStart:before]), nil
				}
				return text.String(), nil
			}
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		}
	}
}

// attributes returns the values of the allowed attributes and rejects any
// other attribute, ignoring namespace declarations.
func (r *reader) attributes(start xml.StartElement, allowed ...string) (map[string]string, error) {
	out := make(map[string]string, len(allowed))
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		known := false
		for _, name := range allowed {
			if attr.Name.Local == name {
				known = true
				break
			}
		}
		if !known {
			return nil, r.errorf("unrecognized attribute '%s' on <%s>", attr.Name.Local, start.Name.Local)
		}
		out[attr.Name.Local] = attr.Value
	}
	return out, nil
}
