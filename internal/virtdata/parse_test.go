package virtdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr  string
		input int64
		want  int64
	}{
		{expr: "Max(42L)", input: 10, want: 42},
		{expr: "Max(42)", input: 50, want: 50},
		{expr: " Max ( -42L ) ", input: -100, want: -42},
		{expr: "Max(-42l)", input: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			op, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op.ApplyAsLong(tt.input))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		expr   string
		reason string
	}{
		{expr: "Max", reason: "expected Name(args)"},
		{expr: "Min(3)", reason: "unknown function Min"},
		{expr: "Max()", reason: "Max takes 1 argument(s), got 0"},
		{expr: "Max(1,2)", reason: "Max takes 1 argument(s), got 2"},
		{expr: "Max(abc)", reason: `invalid long "abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Parse(tt.expr)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.expr, perr.Expr)
			assert.Equal(t, tt.reason, perr.Reason)
		})
	}
}

func TestExamplesParse(t *testing.T) {
	assert.Equal(t, []string{"Max"}, Functions())
	assert.Nil(t, Examples("Nope"))

	for _, name := range Functions() {
		for _, ex := range Examples(name) {
			_, err := Parse(ex.Expr)
			assert.NoError(t, err, ex.Expr)
		}
	}
}
