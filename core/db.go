package core

import "strings"

// DBOrdering is one ORDER BY term.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderBy maps orderings onto whitelisted columns ({field: column}) and joins them into an ORDER BY list.
// Unknown fields are dropped; fallback is used when nothing is left.
func OrderBy(orderings []DBOrdering, columns map[string]string, fallback ...DBOrdering) string {
	clauses := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		if col, ok := columns[ord.Field]; ok {
			clauses = append(clauses, DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(clauses) == 0 {
		for _, ord := range fallback {
			if col, ok := columns[ord.Field]; ok {
				ord.Field = col
			}
			clauses = append(clauses, ord.String())
		}
	}
	return strings.Join(clauses, ", ")
}

// ParseOrdering reads "field,-other" into orderings; a leading "-" means descending.
func ParseOrdering(s string) []DBOrdering {
	var orderings []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if field == "" {
			continue
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
