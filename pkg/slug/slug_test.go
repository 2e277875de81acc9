// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/othinieljo/sentinelle/pkg/slug"
)

/*
TestFrom verifies the accent-stripping, lowercasing and hyphenation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Tombola 2026", "tombola-2026"},
		{"accents", "Tombola de Noël 2026", "tombola-de-noel-2026"},
		{"punctuation", "Grand... Prix!!! (été)", "grand-prix-ete"},
		{"multiple_spaces", "a   b", "a-b"},
		{"leading_trailing", "  --campagne--  ", "campagne"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
