// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"reflect"
	"testing"
)

func TestMergeCategoryPairs(t *testing.T) {
	tests := []struct {
		name     string
		existing []CategoryPair
		selected []CategoryPair
		want     []CategoryPair
	}{
		{
			name:     "both empty",
			existing: nil,
			selected: nil,
			want:     []CategoryPair{},
		},
		{
			name:     "disjoint lists concatenate in order",
			existing: []CategoryPair{{Main: "Premier League", Sub: "Arsenal"}},
			selected: []CategoryPair{{Main: "Eliteserien", Sub: "Brann"}},
			want: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
				{Main: "Eliteserien", Sub: "Brann"},
			},
		},
		{
			name: "duplicate pair from selection dropped",
			existing: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
			},
			selected: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
				{Main: "Premier League", Sub: "Chelsea"},
			},
			want: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
				{Main: "Premier League", Sub: "Chelsea"},
			},
		},
		{
			name: "same main different sub is not a duplicate",
			existing: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
			},
			selected: []CategoryPair{
				{Main: "Premier League", Sub: "Spurs"},
			},
			want: []CategoryPair{
				{Main: "Premier League", Sub: "Arsenal"},
				{Main: "Premier League", Sub: "Spurs"},
			},
		},
		{
			name: "duplicates within one list collapse",
			existing: []CategoryPair{
				{Main: "A", Sub: "x"},
				{Main: "A", Sub: "x"},
			},
			selected: nil,
			want:     []CategoryPair{{Main: "A", Sub: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeCategoryPairs(tt.existing, tt.selected)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeCategoryPairs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryPairEqual(t *testing.T) {
	a := CategoryPair{Main: "Premier League", Sub: "Arsenal"}
	if !a.Equal(CategoryPair{Main: "Premier League", Sub: "Arsenal"}) {
		t.Error("identical pairs should be equal")
	}
	if a.Equal(CategoryPair{Main: "Premier League", Sub: "arsenal"}) {
		t.Error("equality must be case-sensitive on sub")
	}
	if a.Equal(CategoryPair{Main: "Eliteserien", Sub: "Arsenal"}) {
		t.Error("pairs with different main must not be equal")
	}
}

func TestPlayerHasCategory(t *testing.T) {
	p := Player{Category: []CategoryPair{
		{Main: "Premier League", Sub: "Arsenal"},
		{Main: "Eliteserien", Sub: "Brann"},
	}}

	if !p.HasCategory("Eliteserien", "Brann") {
		t.Error("expected pair to be present")
	}
	if p.HasCategory("Eliteserien", "Arsenal") {
		t.Error("mixed pair must not match")
	}
}
