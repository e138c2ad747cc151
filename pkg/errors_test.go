package armlet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{
			err:      &SyntaxError{Remaining: "@@@"},
			expected: `syntax error near "@@@"`,
		},
		{
			err:      &UndefinedError{Name: "x"},
			expected: "undefined: x",
		},
		{
			err:      &IncompatibleTypesError{Want: &NumberType{}, Got: &BooleanType{}},
			expected: "incompatible types: want 'number', got 'boolean'",
		},
		{
			err:      &NotArrayError{Got: &NumberType{}},
			expected: "not an array: 'number'",
		},
		{
			err:      &EmptyArrayError{},
			expected: "empty array literal",
		},
		{
			err:      &BadReturnError{},
			expected: "return outside of a function",
		},
		{
			err:      &BadArityError{Name: "f", Count: 6},
			expected: "f: at most 4 arguments are supported, got 6",
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, c.err.Error())
	}
}

func TestSyntaxErrorTruncation(t *testing.T) {
	err := &SyntaxError{Remaining: strings.Repeat("a", 60)}
	assert.Equal(t, `syntax error near "`+strings.Repeat("a", 40)+`..."`, err.Error())
}
