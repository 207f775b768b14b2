package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// WriteEDN renders v as EDN. Values go through their json encoding first, so
// struct tags pick the key names. Object keys are sorted and written as
// keywords when they are valid ones, otherwise as strings.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := toGeneric(v)
	if err != nil {
		return err
	}
	e := &ednWriter{pretty: pretty}
	e.value(x)
	e.sb.WriteByte('\n')
	_, err = io.WriteString(w, e.sb.String())
	return err
}

type ednWriter struct {
	sb     strings.Builder
	pretty bool
	depth  int
}

func (e *ednWriter) value(v any) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.sb.WriteString(t.String())
	case string:
		e.str(t)
	case []any:
		e.seq('[', ']', len(t), func(i int) { e.value(t[i]) })
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		e.seq('{', '}', len(keys), func(i int) {
			e.key(keys[i])
			e.sb.WriteByte(' ')
			e.value(t[keys[i]])
		})
	default:
		e.str(fmt.Sprint(t))
	}
}

// seq writes n items between open and end, one per line when pretty.
func (e *ednWriter) seq(open, end byte, n int, item func(i int)) {
	e.sb.WriteByte(open)
	if n > 0 {
		e.depth++
		for i := range n {
			if e.pretty {
				e.newline()
			} else if i > 0 {
				e.sb.WriteByte(' ')
			}
			item(i)
		}
		e.depth--
		if e.pretty {
			e.newline()
		}
	}
	e.sb.WriteByte(end)
}

func (e *ednWriter) newline() {
	e.sb.WriteByte('\n')
	e.sb.WriteString(strings.Repeat("  ", e.depth))
}

func (e *ednWriter) key(k string) {
	if !isKeyword(k) {
		e.str(k)
		return
	}
	e.sb.WriteByte(':')
	e.sb.WriteString(k)
}

// str writes s with EDN escapes. Non-ASCII text is kept as UTF-8.
func (e *ednWriter) str(s string) {
	e.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			e.sb.WriteString(`\"`)
		case '\\':
			e.sb.WriteString(`\\`)
		case '\n':
			e.sb.WriteString(`\n`)
		case '\t':
			e.sb.WriteString(`\t`)
		case '\r':
			e.sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == utf8.RuneError {
				fmt.Fprintf(&e.sb, `\u%04x`, r)
				continue
			}
			e.sb.WriteRune(r)
		}
	}
	e.sb.WriteByte('"')
}

func isKeyword(k string) bool {
	if k == "" || (k[0] >= '0' && k[0] <= '9') {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("*+!-_?<>=.", c) >= 0:
		default:
			return false
		}
	}
	return true
}

// toGeneric converts v to maps, slices and json.Number values using its json
// tags. Numbers stay exact, so node ids never pass through float64.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return x, nil
}
