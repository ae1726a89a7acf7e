package lvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a-zA-Z0-9/=!:#&+.-_", "a-zA-Z0-9/=!:#&+.-_"},
		{"foo?", "foo-"},
		{"@% bar", "---bar"},
		{"[foo]*{bar}", "-foo---bar-"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTag(tt.in), "CleanTag(%q)", tt.in)
	}
}

func TestPrefixTags(t *testing.T) {
	got := PrefixTags("friend:cache:", []string{"app", "hash of deps"})
	assert.Equal(t, []string{"friend:cache:app", "friend:cache:hash-of-deps"}, got)

	assert.Empty(t, PrefixTags("p", nil))
}
