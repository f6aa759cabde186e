// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short title unchanged", in: "Annuity Puzzles", want: "Annuity Puzzles"},
		{name: "exact length unchanged", in: strings.Repeat("a", 60), want: strings.Repeat("a", 60)},
		{name: "long ascii cut", in: strings.Repeat("a", 70), want: strings.Repeat("a", 57) + "..."},
		{name: "multi-byte runes kept whole", in: strings.Repeat("é", 70), want: strings.Repeat("é", 57) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, 60)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
