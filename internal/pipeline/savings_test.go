package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	p, ok := Project(dec(100))
	require.True(t, ok)
	assert.True(t, p.Weekly.Equal(dec(700)))
	assert.True(t, p.Monthly.Equal(dec(3000)))
	assert.True(t, p.Yearly.Equal(dec(36500)))
}

func TestProjectNonPositive(t *testing.T) {
	for _, d := range []int64{0, -1, -250} {
		p, ok := Project(dec(d))
		assert.False(t, ok)
		assert.True(t, p.Yearly.IsZero())
	}
}

func TestProjectYearlyExact(t *testing.T) {
	for _, s := range []string{"0.01", "1", "33.33", "99.999", "123456.789"} {
		d := decimalString(t, s)
		p, ok := Project(d)
		require.True(t, ok)
		assert.True(t, p.Yearly.Equal(d.Mul(decimal.NewFromInt(365))), s)
	}
}
