package matching

import "strings"

// FieldAlias lists the header spellings accepted for one canonical field.
type FieldAlias struct {
	Canonical string
	Aliases   []string
	Optional  bool
}

// AliasTable is ordered: earlier fields claim overlapping headers first.
type AliasTable []FieldAlias

// ResolveColumns renames headers to their canonical names in place and
// returns the required canonical names it could not find.
//
// Exact alias matches are tried before substring containment. A header
// claimed by one canonical field is not offered to later ones.
func (t *Table) ResolveColumns(aliases AliasTable) []string {
	for i, h := range t.Headers {
		t.Headers[i] = strings.TrimSpace(h)
	}

	claimed := make([]bool, len(t.Headers))
	var missing []string

	for _, field := range aliases {
		idx := findExact(t.Headers, claimed, field.Aliases)
		if idx < 0 {
			idx = findContaining(t.Headers, claimed, field.Aliases)
		}
		if idx < 0 {
			if !field.Optional {
				missing = append(missing, field.Canonical)
			}
			continue
		}
		t.Headers[idx] = field.Canonical
		claimed[idx] = true
	}
	return missing
}

func findExact(headers []string, claimed []bool, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if !claimed[i] && h == alias {
				return i
			}
		}
	}
	return -1
}

func findContaining(headers []string, claimed []bool, aliases []string) int {
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		for i, h := range headers {
			if !claimed[i] && strings.Contains(h, alias) {
				return i
			}
		}
	}
	return -1
}
