package profile

// Uniqueness counts distinct non-null values per column. Values compare by
// kind and content with no normalization, so "A" and "a" differ, as do 1
// and 1.0.
func Uniqueness(p Projection) map[string]int {
	out := make(map[string]int, len(p.Columns))
	for _, c := range p.Columns {
		seen := make(map[string]struct{})
		for i := range p.Rows {
			if v, ok := p.value(i, c.Name); ok {
				seen[v.Key()] = struct{}{}
			}
		}
		out[c.Name] = len(seen)
	}
	return out
}
