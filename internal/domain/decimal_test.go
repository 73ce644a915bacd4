package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := NewDecimalFromString(s)
	require.NoError(t, err)
	return d
}

func TestNewDecimalFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "19500", want: "19500"},
		{input: "0.01", want: "0.01"},
		{input: "-2.5", want: "-2.5"},
		{input: "1e3", want: "1E+3"},
		{input: "19,5", wantErr: true},
		{input: "", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "Infinity", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := NewDecimalFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestNewDecimalFromFloat(t *testing.T) {
	d, err := NewDecimalFromFloat(123.45)
	require.NoError(t, err)
	f, err := d.Float64()
	require.NoError(t, err)
	assert.InDelta(t, 123.45, f, 1e-12)

	_, err = NewDecimalFromFloat(math.NaN())
	assert.Error(t, err)
	_, err = NewDecimalFromFloat(math.Inf(1))
	assert.Error(t, err)
}

func TestDecimal_Arithmetic(t *testing.T) {
	a := mustDecimal(t, "20000")
	b := mustDecimal(t, "19500")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "39500", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-500", diff.String())
	assert.Equal(t, "500", diff.Abs().String())

	prod, err := diff.Abs().Mul(mustDecimal(t, "0.01"))
	require.NoError(t, err)
	assert.Equal(t, 0, prod.Cmp(NewDecimalFromInt(5)))
}

func TestDecimal_Div(t *testing.T) {
	third, err := NewDecimalFromInt(1).Div(NewDecimalFromInt(3))
	require.NoError(t, err)

	back, err := third.Mul(NewDecimalFromInt(3))
	require.NoError(t, err)
	f, err := back.Float64()
	require.NoError(t, err)
	assert.InDelta(t, 1, f, 1e-15)

	res, err := NewDecimalFromInt(1).Div(Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.True(t, res.IsZero())
}

func TestDecimal_Cmp(t *testing.T) {
	assert.Equal(t, -1, NewDecimalFromInt(1).Cmp(NewDecimalFromInt(2)))
	assert.Equal(t, 0, mustDecimal(t, "2.0").Cmp(NewDecimalFromInt(2)))
	assert.Equal(t, 1, NewDecimalFromInt(3).Cmp(NewDecimalFromInt(2)))
	assert.True(t, Zero.IsZero())
	assert.False(t, NewDecimalFromInt(1).IsZero())
}
