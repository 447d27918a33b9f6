// Package schema emits schema.org JSON-LD documents from content records.
//
// Every emitter is a pure function of its input. Required fields that are
// missing are reported as errors wrapping ErrMissingField so a build fails
// on the authoring defect instead of publishing incomplete markup.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
)

const vocabulary = "https://schema.org"

var (
	// ErrMissingField reports a required property with no value.
	ErrMissingField = errors.New("missing required field")
	// ErrBreadcrumbPath reports a breadcrumb trail that is not a
	// root-to-leaf path ending at the current route.
	ErrBreadcrumbPath = errors.New("invalid breadcrumb path")
)

// Document is one structured-data document of a page.
type Document struct {
	Type string
	body any
}

// MarshalJSON encodes the document body. encoding/json escapes <, > and &
// so the output is safe inside a script element.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.body)
}

// Script returns the document wrapped in a JSON-LD script element.
func (d Document) Script() (template.HTML, error) {
	raw, err := json.Marshal(d.body)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", d.Type, err)
	}
	var buf bytes.Buffer
	buf.WriteString(`<script type="application/ld+json">`)
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indent %s: %w", d.Type, err)
	}
	buf.WriteString(`</script>`)
	return template.HTML(buf.String()), nil
}

// Scripts renders every document in order.
func Scripts(docs []Document) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(docs))
	for _, d := range docs {
		s, err := d.Script()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type field struct {
	name  string
	value string
}

func required(docType string, fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s: %w: %s", docType, ErrMissingField, f.name)
		}
	}
	return nil
}
