package profile

import (
	"sort"
	"strconv"
	"strings"
)

// missingKey stands for an absent or null field in a row key.
const missingKey = "-"

// DuplicateRows counts rows equal to an earlier row over every column. The
// first row of each group is not counted. Absent and null compare equal;
// other values compare by kind and content.
func DuplicateRows(p Projection) int {
	columns := p.Names()
	sort.Strings(columns)

	seen := make(map[string]struct{}, len(p.Rows))
	dups := 0
	var b strings.Builder
	for i := range p.Rows {
		b.Reset()
		for _, name := range columns {
			key := missingKey
			if v, ok := p.value(i, name); ok {
				key = v.Key()
			}
			// Length prefix keeps keys containing separators unambiguous.
			b.WriteString(strconv.Itoa(len(key)))
			b.WriteByte(':')
			b.WriteString(key)
		}
		k := b.String()
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}
