package skills

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDescriptionTemplate renders one skill entry of the tool description
const DefaultDescriptionTemplate = "### {name}\n- **Description**: {description}\n- **Directory**: `{path}`"

// placeholders maps the recognised template fields to their values
var placeholders = map[string]func(*Skill) string{
	"name":         func(s *Skill) string { return s.Name },
	"path":         func(s *Skill) string { return s.Directory },
	"content_path": func(s *Skill) string { return s.ContentPath },
	"description":  describe,
}

func describe(s *Skill) string {
	if s.Description != "" {
		return s.Description
	}
	return fmt.Sprintf("Instructions for the %s skill.", s.Name)
}

type segment struct {
	literal string
	field   string
}

// DescriptionBuilder renders per-skill description text from a template
// using {name}, {path}, {content_path} and {description} placeholders.
// "{{" and "}}" produce literal braces.
type DescriptionBuilder struct {
	template string
	segments []segment
}

// NewDescriptionBuilder parses template, falling back to
// DefaultDescriptionTemplate when it is empty.
func NewDescriptionBuilder(template string) (*DescriptionBuilder, error) {
	if template == "" {
		template = DefaultDescriptionTemplate
	}

	segments, err := parseTemplate(template)
	if err != nil {
		return nil, err
	}

	return &DescriptionBuilder{template: template, segments: segments}, nil
}

// Template returns the template in use
func (b *DescriptionBuilder) Template() string {
	return b.template
}

// Render produces the description of a single skill
func (b *DescriptionBuilder) Render(skill *Skill) string {
	var sb strings.Builder
	for _, seg := range b.segments {
		if seg.field == "" {
			sb.WriteString(seg.literal)
			continue
		}
		sb.WriteString(placeholders[seg.field](skill))
	}
	return sb.String()
}

// RenderAll renders every skill and separates the entries with a blank line
func (b *DescriptionBuilder) RenderAll(skills []*Skill) string {
	rendered := make([]string, 0, len(skills))
	for _, skill := range skills {
		rendered = append(rendered, b.Render(skill))
	}
	return strings.Join(rendered, "\n\n")
}

func parseTemplate(template string) ([]segment, error) {
	var (
		segments []segment
		literal  strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			literal.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			literal.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return nil, errors.Wrapf(ErrInvalidTemplate, "unterminated placeholder at offset %d", i)
			}
			field := template[i+1 : i+1+end]
			if _, ok := placeholders[field]; !ok {
				return nil, errors.Wrapf(ErrInvalidTemplate, "unknown placeholder {%s}", field)
			}
			flush()
			segments = append(segments, segment{field: field})
			i += end + 1
		case c == '}':
			return nil, errors.Wrapf(ErrInvalidTemplate, "unmatched '}' at offset %d", i)
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	return segments, nil
}
