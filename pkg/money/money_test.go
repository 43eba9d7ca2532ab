package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

func TestNew_Validation(t *testing.T) {
	_, err := money.NewFromFloat(10, "")
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "INVALID_MONEY", domain.CodeOf(err))

	_, err = money.NewFromFloat(-1, "MXN")
	assert.True(t, domain.IsValidation(err))
}

func TestNew_NormalizesCurrencyAndScale(t *testing.T) {
	m, err := money.NewFromFloat(10.005, "mxn")
	require.NoError(t, err)
	assert.Equal(t, "MXN", m.Currency())
	assert.Equal(t, "MXN 10.01", m.String()) // half-up
}

func TestAddSubtract_RoundTrip(t *testing.T) {
	original := money.Pesos(16000)
	delta := money.Pesos(1234.56)

	sum, err := original.Add(delta)
	require.NoError(t, err)
	back, err := sum.Subtract(delta)
	require.NoError(t, err)

	assert.True(t, back.Equals(original))
}

func TestSubtract_NegativeResult(t *testing.T) {
	_, err := money.Pesos(100).Subtract(money.Pesos(150))
	assert.True(t, domain.IsInvariant(err))
	assert.Equal(t, "NEGATIVE_RESULT", domain.CodeOf(err))
}

func TestCurrencyMismatch(t *testing.T) {
	mxn := money.Pesos(100)
	usd, err := money.NewFromFloat(100, "USD")
	require.NoError(t, err)

	_, err = mxn.Add(usd)
	assert.Equal(t, "CURRENCY_MISMATCH", domain.CodeOf(err))
	_, err = mxn.Subtract(usd)
	assert.Equal(t, "CURRENCY_MISMATCH", domain.CodeOf(err))
	_, err = mxn.GreaterThan(usd)
	assert.Equal(t, "CURRENCY_MISMATCH", domain.CodeOf(err))
	_, err = mxn.LessThan(usd)
	assert.Equal(t, "CURRENCY_MISMATCH", domain.CodeOf(err))
	_, err = mxn.GreaterOrEqual(usd)
	assert.Equal(t, "CURRENCY_MISMATCH", domain.CodeOf(err))
}

func TestMultiply(t *testing.T) {
	m, err := money.Pesos(500).Multiply(2)
	require.NoError(t, err)
	assert.True(t, m.Equals(money.Pesos(1000)))

	_, err = money.Pesos(500).Multiply(-1)
	assert.True(t, domain.IsValidation(err))
}

func TestEquals_IgnoresTrailingZeros(t *testing.T) {
	a := money.MustParse("15.00", "MXN")
	b := money.MustParse("15", "MXN")
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(money.MustParse("15", "USD")))
}

func TestComparisons(t *testing.T) {
	big := money.Pesos(200)
	small := money.Pesos(100)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	ge, err := big.GreaterOrEqual(money.Pesos(200))
	require.NoError(t, err)
	assert.True(t, ge)

	assert.True(t, money.Zero("MXN").IsZero())
	assert.False(t, small.IsZero())
}

func TestJSONRoundTrip(t *testing.T) {
	m := money.Pesos(15000.5)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"15000.50","currency":"MXN"}`, string(data))

	var back money.Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equals(m))
}
