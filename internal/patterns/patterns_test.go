package patterns

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeWord(t *testing.T) {
	tests := []struct {
		literal string
		text    string
		want    bool
	}{
		{"josé", "josé arrived", true},
		{"josé", "it was josé", true},
		{"josé", "joséfina arrived", false},
		{"zoë", "zoë, anna and boris", true},
		{"anna", "zoë anna left", true},
		{"anna", "éanna left", false},
		{"anna", "annaé left", false},
		{"anna", "anna_b left", false},
		{"a.b", "axb", false},
		{"aide (outside door)", "the aide (outside door) waited", false},
		{"aide (outside door)", "the aide (outside door)x", true},
		{"(x", "a(x b", true},
		{"(x", "(x b", false},
	}
	for _, tt := range tests {
		re := regexp.MustCompile(WholeWord(tt.literal))
		assert.Equal(t, tt.want, re.MatchString(tt.text), "%q in %q", tt.literal, tt.text)
	}
}
