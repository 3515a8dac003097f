package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ncalabs/scribe/pkg/util"
)

// Document is a parsed article file: the ordered front-matter fields
// and the markdown body. Unknown fields survive a parse/render round
// trip untouched, which is what makes partial updates a merge rather
// than a replace.
type Document struct {
	fields []docField
	Body   string
}

type docField struct {
	key string
	raw string
}

// ParseDocument splits a stored article into front-matter and body.
func ParseDocument(data []byte) (*Document, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(text, "---\n") {
		return nil, fmt.Errorf("missing front-matter block")
	}
	rest := text[len("---\n"):]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("unterminated front-matter block")
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	doc := &Document{Body: body}
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		doc.fields = append(doc.fields, docField{
			key: strings.TrimSpace(key),
			raw: strings.TrimSpace(raw),
		})
	}

	return doc, nil
}

// Get returns the unquoted scalar value for key.
func (d *Document) Get(key string) (string, bool) {
	for _, f := range d.fields {
		if f.key == key {
			return unquoteScalar(f.raw), true
		}
	}
	return "", false
}

// GetList returns the JSON-decoded array value for key, or an empty
// slice if the field is absent or malformed.
func (d *Document) GetList(key string) []string {
	for _, f := range d.fields {
		if f.key == key {
			var out []string
			if err := json.Unmarshal([]byte(f.raw), &out); err == nil {
				return out
			}
			return []string{}
		}
	}
	return []string{}
}

// Set replaces (or appends) a quoted scalar field.
func (d *Document) Set(key, value string) {
	raw := fmt.Sprintf("\"%s\"", util.EscapeYAML(value))
	for i, f := range d.fields {
		if f.key == key {
			d.fields[i].raw = raw
			return
		}
	}
	d.fields = append(d.fields, docField{key: key, raw: raw})
}

// Render reassembles the document in storage format.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range d.fields {
		fmt.Fprintf(&b, "%s: %s\n", f.key, f.raw)
	}
	b.WriteString("---\n\n")
	b.WriteString(d.Body)
	return b.String()
}

func unquoteScalar(raw string) string {
	if len(raw) < 2 || !strings.HasPrefix(raw, "\"") || !strings.HasSuffix(raw, "\"") {
		return raw
	}
	inner := raw[1 : len(raw)-1]

	// Single pass so a decoded backslash is never re-read as the start
	// of another escape pair.
	var b strings.Builder
	b.Grow(len(inner))
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 == len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			b.WriteByte('\n')
		case '"', '\\':
			b.WriteRune(runes[i])
		default:
			b.WriteByte('\\')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
