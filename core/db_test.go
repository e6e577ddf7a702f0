package core

import (
	"reflect"
	"testing"
)

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		in   string
		want []DBOrdering
	}{
		{in: ""},
		{in: " , -"},
		{in: "name", want: []DBOrdering{{Field: "name", Ascending: true}}},
		{in: "-created_at, role", want: []DBOrdering{{Field: "created_at"}, {Field: "role", Ascending: true}}},
	}
	for _, tt := range tests {
		if got := ParseOrdering(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseOrdering(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrderBy(t *testing.T) {
	columns := map[string]string{"created_at": "r.created_at", "status": "r.status"}
	fallback := DBOrdering{Field: "created_at"}

	tests := []struct {
		name      string
		orderings []DBOrdering
		want      string
	}{
		{name: "fallback", want: "r.created_at DESC"},
		{name: "unknown fields dropped", orderings: []DBOrdering{{Field: "password"}, {Field: "status", Ascending: true}}, want: "r.status ASC"},
		{name: "only unknown fields", orderings: []DBOrdering{{Field: "1; DROP TABLE reports"}}, want: "r.created_at DESC"},
		{name: "several", orderings: []DBOrdering{{Field: "status"}, {Field: "created_at", Ascending: true}}, want: "r.status DESC, r.created_at ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrderBy(tt.orderings, columns, fallback); got != tt.want {
				t.Errorf("OrderBy() = %q; want %q", got, tt.want)
			}
		})
	}
}
