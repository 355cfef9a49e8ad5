// Package pipeline decodes streamed parameter sets for batch invocation.
//
// A stream is any of:
//
//	{"VpcLinkId": "vpc-1"}            newline-delimited or concatenated JSON values
//	[{"VpcLinkId": "vpc-1"}, "vpc-2"]  a top-level JSON array
//	VpcLinkId: vpc-1                   YAML documents separated by ---
//	123                                bare JSON numbers, true, false or null
//
// Mapping elements bind by property name; scalar elements bind to the
// operation's pipeline-value parameter.
package pipeline

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/lex00/apigwv2-go/internal/operation"
)

// Element is one decoded stream element. Err is set when the element could
// not be decoded or is not a mapping or scalar; Item is nil in that case.
type Element struct {
	Index int
	Item  *operation.Item
	Err   error
}

// ElementError reports a stream element that could not be turned into a
// parameter set.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// Decode reads parameter sets from r and calls fn for each, in order.
// A malformed document is delivered as an Element with Err and ends the
// stream, since neither decoder can resynchronise after a syntax error.
// An error returned by fn stops decoding and is returned.
func Decode(r io.Reader, fn func(Element) error) error {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	d := &decoder{fn: fn}
	if first == '{' || first == '[' || first == '"' || jsonScalar(br) {
		return d.json(br)
	}
	return d.yaml(br)
}

// maxScalarPeek bounds how far jsonScalar looks ahead for the first token.
const maxScalarPeek = 64

// jsonScalar reports whether the stream opens with a bare JSON number,
// true, false or null. Such streams are read as JSON values so that
// "123\n456" is two elements rather than one folded YAML scalar. YAML
// streams like "- vpc-1" or "name: x" fail the check.
func jsonScalar(br *bufio.Reader) bool {
	for n := 1; n <= maxScalarPeek; n++ {
		b, _ := br.Peek(n)
		if len(b) < n {
			return len(b) > 0 && json.Valid(b)
		}
		if unicode.IsSpace(rune(b[n-1])) {
			return json.Valid(b[:n-1])
		}
	}
	return false
}

type decoder struct {
	fn    func(Element) error
	index int
}

func (d *decoder) emit(v any) error {
	el := Element{Index: d.index}
	d.index++

	switch t := v.(type) {
	case map[string]any:
		el.Item = &operation.Item{Fields: t}
	case []any, map[any]any:
		el.Err = &ElementError{Index: el.Index, Err: fmt.Errorf("expected a mapping or scalar, got %T", v)}
	default:
		el.Item = &operation.Item{Value: t}
	}
	return d.fn(el)
}

func (d *decoder) fail(err error) error {
	el := Element{Index: d.index, Err: &ElementError{Index: d.index, Err: err}}
	d.index++
	return d.fn(el)
}

func (d *decoder) json(r io.Reader) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return d.fail(err)
		}

		if arr, ok := v.([]any); ok {
			for _, el := range arr {
				if err := d.emit(el); err != nil {
					return err
				}
			}
			continue
		}
		if err := d.emit(v); err != nil {
			return err
		}
	}
}

func (d *decoder) yaml(r io.Reader) error {
	dec := yaml.NewDecoder(r)

	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return d.fail(err)
		}
		if emptyDocument(&doc) {
			continue
		}

		var v any
		if err := doc.Decode(&v); err != nil {
			return d.fail(err)
		}

		if arr, ok := v.([]any); ok {
			for _, el := range arr {
				if err := d.emit(el); err != nil {
					return err
				}
			}
			continue
		}
		if err := d.emit(v); err != nil {
			return err
		}
	}
}

// emptyDocument reports whether doc has no content, as between two "---"
// markers. An explicit null or ~ is content.
func emptyDocument(doc *yaml.Node) bool {
	if len(doc.Content) == 0 {
		return true
	}
	root := doc.Content[0]
	return root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" && root.Value == ""
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b[0])) {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}
