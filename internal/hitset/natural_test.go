package hitset

import (
	"reflect"
	"testing"
)

func TestSortNatural(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{
			name: "numeric suffixes sort numerically",
			ids:  []string{"b-10", "b-2", "a-1"},
			want: []string{"a-1", "b-2", "b-10"},
		},
		{
			name: "multi-dash names split on last dash",
			ids:  []string{"scikit-learn-100", "scikit-learn-9"},
			want: []string{"scikit-learn-9", "scikit-learn-100"},
		},
		{
			name: "non-matching IDs sort after all matching ones",
			ids:  []string{"misc", "zz-1", "aaa", "ab-3"},
			want: []string{"ab-3", "zz-1", "aaa", "misc"},
		},
		{
			name: "empty",
			ids:  []string{},
			want: []string{},
		},
		{
			name: "already sorted",
			ids:  []string{"django-1", "django-2", "django-3"},
			want: []string{"django-1", "django-2", "django-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, len(tt.ids))
			copy(ids, tt.ids)
			SortNatural(ids)
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("SortNatural() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		id      string
		name    string
		num     int
		literal bool
	}{
		{"astropy-12907", "astropy", 12907, false},
		{"scikit-learn-25500", "scikit-learn", 25500, false},
		{"plain", "plain", 0, true},
		{"trailing-dash-", "trailing-dash-", 0, true},
		{"x-1a", "x-1a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := keyOf(tt.id)
			if got.name != tt.name || got.num != tt.num || got.literal != tt.literal {
				t.Errorf("keyOf(%q) = %+v, want {name:%s num:%d literal:%v}",
					tt.id, got, tt.name, tt.num, tt.literal)
			}
		})
	}
}
