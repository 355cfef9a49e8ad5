package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format specifies the output format.
type Format string

const (
	// FormatJSON writes one indented JSON value per output.
	FormatJSON Format = "json"
	// FormatYAML writes one YAML document per output.
	FormatYAML Format = "yaml"
	// FormatText writes scalars bare and mappings as aligned "Key : Value" lines.
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s (use json, yaml or text)", s)
	}
}

// Writer renders successive values to an underlying writer.
type Writer struct {
	w      io.Writer
	format Format
	count  int
}

// NewWriter creates a Writer for format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Write renders v after converting it with Plain.
func (rw *Writer) Write(v any) error {
	p, err := Plain(v)
	if err != nil {
		return fmt.Errorf("converting output: %w", err)
	}
	return rw.encode(p)
}

// WriteRecord renders a value that carries its own json and yaml tags.
// Zero fields are kept unless tagged omitempty. Text output goes through
// Plain like Write.
func (rw *Writer) WriteRecord(v any) error {
	if rw.format == FormatText {
		return rw.Write(v)
	}
	return rw.encode(v)
}

func (rw *Writer) encode(p any) error {
	defer func() { rw.count++ }()

	switch rw.format {
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		if rw.count > 0 {
			if _, err := io.WriteString(rw.w, "---\n"); err != nil {
				return err
			}
		}
		_, err = rw.w.Write(data)
		return err

	case FormatText:
		if rw.count > 0 {
			if m, ok := p.(map[string]any); ok && len(m) > 0 {
				if _, err := io.WriteString(rw.w, "\n"); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(rw.w, Text(p))
		return err

	default:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = rw.w.Write(data)
		return err
	}
}

// Text formats a plain value for terminal display.
func Text(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		keys := make([]string, 0, len(v))
		width := 0
		for k := range v {
			keys = append(keys, k)
			if len(k) > width {
				width = len(k)
			}
		}
		sort.Strings(keys)

		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-*s : %s\n", width, k, inline(v[k]))
		}
		return sb.String()
	case []any:
		var sb strings.Builder
		for _, el := range v {
			sb.WriteString(inline(el))
			sb.WriteString("\n")
		}
		return sb.String()
	default:
		return inline(v) + "\n"
	}
}

// inline formats a nested value on a single line.
func inline(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, el := range v {
			parts[i] = inline(el)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + inline(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
