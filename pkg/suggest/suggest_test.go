package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/deptrim/pkg/suggest"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "a", 1},
		{"a", "", 1},
		{"same", "same", 0},
		{"kitten", "sitting", 3},
		{"sitting", "kitten", 3},
		{"aa", "aü", 1},
		{"x", "xyz", 2},
		{"containers", "contaners", 1},
	}

	var m suggest.Matcher

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Distance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"base", "containers", "text", "bytestring"}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"contaners", "containers", true},
		{"Text", "text", true},
		{"bytestrng", "bytestring", true},
		{"aeson", "", false},
		{"base", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := suggest.Closest(tt.name, candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
