package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsize/internal/parser"
)

func TestKeyFilterAllows(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		key     string
		allowed bool
	}{
		{name: "no patterns", key: "main.o", allowed: true},
		{name: "include match", include: []string{"*.o"}, key: "main.o", allowed: true},
		{name: "include miss", include: []string{"*.o"}, key: ".text", allowed: false},
		{name: "second include matches", include: []string{"*.c", "lib*"}, key: "libc.a(memcpy.o)", allowed: true},
		{name: "exclude match", exclude: []string{"*fill*"}, key: "*fill*", allowed: false},
		{name: "exclude miss", exclude: []string{"crt*.o"}, key: "main.o", allowed: true},
		{name: "exclude wins over include", include: []string{"*.o"}, exclude: []string{"crt0.o"}, key: "crt0.o", allowed: false},
		{name: "character class", include: []string{"[mu]*.o"}, key: "util.o", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewKeyFilter(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, f.Allows(tt.key))
		})
	}
}

func TestNewKeyFilterInvalidPattern(t *testing.T) {
	_, err := NewKeyFilter([]string{"[a-"}, nil)
	assert.Error(t, err)

	_, err = NewKeyFilter(nil, []string{"x[.o"})
	assert.Error(t, err)
}

func TestKeyFilterApply(t *testing.T) {
	table := parser.SizeTable{"main.o": 336, "util.o": 32, "*fill*": 4, ".text": 8}

	f, err := NewKeyFilter([]string{"*.o"}, []string{"util.o"})
	require.NoError(t, err)

	filtered := f.Apply(table)
	assert.Equal(t, parser.SizeTable{"main.o": 336}, filtered)
	assert.Len(t, table, 4, "input table must not be modified")

	passthrough, err := NewKeyFilter(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, table, passthrough.Apply(table))
}
