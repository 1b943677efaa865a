package record

import "strings"

// Props is a parsed property string: an ordered sequence of key=value
// pairs with last-occurrence-wins lookup semantics.
type Props struct {
	order []string
	byKey map[string]string
}

// ParseProps tokenizes a raw property string into key=value pairs. A value
// may be bare (terminated by whitespace), double-quoted, or single-quoted;
// inside a quoted value, \x escapes the next character. Duplicate keys:
// the last occurrence wins, but first-seen order is preserved for
// iteration.
func ParseProps(raw string) *Props {
	p := &Props{byKey: make(map[string]string)}
	runes := []rune(raw)
	i, n := 0, len(runes)

	skipSpace := func() {
		for i < n && isSpace(runes[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= n {
			break
		}

		// key
		start := i
		for i < n && runes[i] != '=' && !isSpace(runes[i]) {
			i++
		}
		key := string(runes[start:i])
		if key == "" {
			// Malformed token (e.g. stray '='); skip it rather than loop forever.
			i++
			continue
		}
		skipSpace()
		if i >= n || runes[i] != '=' {
			// No value attached to this key; treat as empty and continue.
			p.set(key, "")
			continue
		}
		i++ // consume '='

		var value string
		if i < n && (runes[i] == '"' || runes[i] == '\'') {
			quote := runes[i]
			i++
			var b strings.Builder
			for i < n && runes[i] != quote {
				if runes[i] == '\\' && i+1 < n {
					i++
					b.WriteRune(runes[i])
					i++
					continue
				}
				b.WriteRune(runes[i])
				i++
			}
			if i < n {
				i++ // consume closing quote
			}
			value = b.String()
		} else {
			start := i
			for i < n && !isSpace(runes[i]) {
				i++
			}
			value = string(runes[start:i])
		}
		p.set(key, value)
	}

	return p
}

func (p *Props) set(key, value string) {
	if _, exists := p.byKey[key]; !exists {
		p.order = append(p.order, key)
	}
	p.byKey[key] = value
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Get returns the value for key, or "" if absent.
func (p *Props) Get(key string) string {
	if p == nil {
		return ""
	}
	return p.byKey[key]
}

// Has reports whether key was explicitly present in the property string.
func (p *Props) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.byKey[key]
	return ok
}

// Map materializes the property set into a key/value map. The returned Go
// map carries no key order; Keys gives the first-seen order.
func (p *Props) Map() map[string]string {
	out := make(map[string]string, len(p.order))
	for _, k := range p.order {
		out[k] = p.byKey[k]
	}
	return out
}

// Keys returns property keys in first-seen order.
func (p *Props) Keys() []string {
	return append([]string(nil), p.order...)
}
