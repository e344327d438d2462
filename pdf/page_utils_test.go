package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMargin(t *testing.T) {
	m, err := ParseMargin(" 50, 100 ,50,0 ")
	require.NoError(t, err)
	assert.Equal(t, Margin{Left: 50, Bottom: 100, Right: 50, Top: 0}, m)

	m, err = ParseMargin("-10, 0, 0, 0")
	require.NoError(t, err)
	assert.Equal(t, Margin{Left: -10}, m)

	for _, in := range []string{"", "1, 2, 3", "1, 2, 3, 4, 5", "1, 2, x, 4", "1.5, 2, 3, 4"} {
		_, err := ParseMargin(in)
		assert.ErrorIs(t, err, ErrInvalidMargin, in)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Dims
	}{
		{"100, 150", Dims{Width: 100, Height: 150}},
		{"_, 500", Dims{Height: 500}},
		{"123 , _", Dims{Width: 123}},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"", "_, _", "100", "0, 100", "-5, 100", "a, b", "1, 2, 3"} {
		_, err := ParseTarget(in)
		assert.ErrorIs(t, err, ErrInvalidTarget, in)
	}
}

func TestValidatePageNumbers(t *testing.T) {
	assert.NoError(t, ValidatePageNumbers([]int{1, 3, 3, 2}, 3))
	assert.NoError(t, ValidatePageNumbers(nil, 0))
	assert.ErrorIs(t, ValidatePageNumbers([]int{0}, 3), ErrPageOutOfRange)
	assert.ErrorIs(t, ValidatePageNumbers([]int{1, 4}, 3), ErrPageOutOfRange)
}
