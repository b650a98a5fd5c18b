// Package displayname builds short, unambiguous labels for roster members
// who share a first name.
package displayname

import "strings"

// Person is the minimal identity needed to build a label.
type Person struct {
	ID        string
	FirstName string
	LastName  string
}

// Disambiguate maps each person id to "First L." using the shortest last-name
// prefix that no other member of the same first-name group starts with. When
// no prefix is unique (one surname is a prefix of another) the full surname
// is used. Comparison is byte-for-byte on the stored names and prefixes are
// cut on rune boundaries so multi-byte names stay valid.
func Disambiguate(people []Person) map[string]string {
	groups := make(map[string][]Person)
	for _, p := range people {
		groups[p.FirstName] = append(groups[p.FirstName], p)
	}

	labels := make(map[string]string, len(people))
	for firstName, group := range groups {
		for _, p := range group {
			labels[p.ID] = firstName + " " + shortestPrefix(p, group) + "."
		}
	}
	return labels
}

func shortestPrefix(p Person, group []Person) string {
	for _, end := range runeEnds(p.LastName) {
		prefix := p.LastName[:end]
		if !collides(p, prefix, group) {
			return prefix
		}
	}
	return p.LastName
}

func collides(p Person, prefix string, group []Person) bool {
	for _, other := range group {
		if other.ID == p.ID {
			continue
		}
		if strings.HasPrefix(other.LastName, prefix) {
			return true
		}
	}
	return false
}

// runeEnds returns the byte offset after each rune of s, in order.
func runeEnds(s string) []int {
	ends := make([]int, 0, len(s))
	for i := range s {
		if i > 0 {
			ends = append(ends, i)
		}
	}
	if len(s) > 0 {
		ends = append(ends, len(s))
	}
	return ends
}
