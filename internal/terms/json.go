package terms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// field is one key/value pair of a record, in source order.
type field struct {
	name  string
	value any
}

// parseJSON accepts two shapes:
//  1. an object of name -> pattern pairs
//  2. an array of records, resolved per recordPair
//
// Key order is preserved by streaming tokens instead of decoding into a map.
func parseJSON(data []byte) (*Set, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse term list JSON: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("term list JSON must be an object or array")
	}

	switch delim {
	case '{':
		return parseJSONObject(dec)
	case '[':
		return parseJSONArray(dec)
	default:
		return nil, fmt.Errorf("term list JSON must be an object or array")
	}
}

func parseJSONObject(dec *json.Decoder) (*Set, error) {
	set := NewSet()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse term list JSON: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse term list JSON: unexpected key %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse term list JSON: %w", err)
		}
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("term %q: pattern must be a string", name)
		}
		set.Add(name, pattern)
	}
	return set, nil
}

func parseJSONArray(dec *json.Decoder) (*Set, error) {
	set := NewSet()
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse term list JSON: %w", err)
		}

		fields, err := recordFields(raw)
		if err != nil {
			// Non-object array entries are skipped, matching the
			// tolerant record handling below.
			continue
		}
		if name, pattern, ok := recordPair(fields); ok {
			set.Add(name, pattern)
		}
	}
	return set, nil
}

// recordFields decodes a JSON object into its key/value pairs in source order.
func recordFields(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not an object")
	}

	var fields []field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{name: key, value: value})
	}
	return fields, nil
}

// recordPair resolves a record's name/pattern pair. Precedence:
//  1. fields named "name" and "pattern"
//  2. fields named "term" and "regex"
//  3. the record's first two fields in defined order, when both are strings
//
// Records matching none of these shapes are skipped (ok=false).
func recordPair(fields []field) (name, pattern string, ok bool) {
	byName := make(map[string]any, len(fields))
	for _, f := range fields {
		if _, exists := byName[f.name]; !exists {
			byName[f.name] = f.value
		}
	}

	for _, pair := range [][2]string{{"name", "pattern"}, {"term", "regex"}} {
		n, nOK := byName[pair[0]].(string)
		p, pOK := byName[pair[1]].(string)
		if nOK && pOK {
			return n, p, true
		}
	}

	if len(fields) < 2 {
		return "", "", false
	}
	n, nOK := fields[0].value.(string)
	p, pOK := fields[1].value.(string)
	if nOK && pOK {
		return n, p, true
	}
	return "", "", false
}
