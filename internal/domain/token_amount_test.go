package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholeTokens(t *testing.T) {
	one := WholeTokens(1)
	assert.Equal(t, "1000000000000000000", one.String())

	supply := WholeTokens(690000)
	assert.Equal(t, "690000000000000000000000", supply.String())
}

func TestParseTokenAmount(t *testing.T) {
	parsed, err := ParseTokenAmount("690000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Cmp(WholeTokens(690000)))

	_, err = ParseTokenAmount("not-a-number")
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	a := WholeTokens(100)
	b := WholeTokens(30)

	assert.Equal(t, 0, a.Add(b).Cmp(WholeTokens(130)))
	assert.Equal(t, 0, a.Sub(b).Cmp(WholeTokens(70)))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.True(t, a.Sub(a).IsZero())
	assert.Equal(t, -1, b.Sub(a).Sign())
}

func TestPercentFloors(t *testing.T) {
	total := WholeTokens(690000)

	owner := total.Percent(51, 100)
	assert.Equal(t, 0, owner.Cmp(WholeTokens(351900)))

	fee := total.Percent(25, 1000)
	assert.Equal(t, 0, fee.Cmp(WholeTokens(17250)))

	// 1 base unit * 51 / 100 floors to zero
	tiny, err := ParseTokenAmount("1")
	require.NoError(t, err)
	assert.True(t, tiny.Percent(51, 100).IsZero())
}

func TestMaxTokenAmount(t *testing.T) {
	a := WholeTokens(5)
	b := WholeTokens(7)
	assert.Equal(t, 0, MaxTokenAmount(a, b).Cmp(b))
	assert.Equal(t, 0, MaxTokenAmount(b, a).Cmp(b))
	assert.Equal(t, 0, MaxTokenAmount(a, a).Cmp(a))
}

func TestScanAndValue(t *testing.T) {
	var amount TokenAmount
	require.NoError(t, amount.Scan("351900000000000000000000"))
	assert.Equal(t, 0, amount.Cmp(WholeTokens(351900)))

	v, err := amount.Value()
	require.NoError(t, err)
	assert.Equal(t, "351900000000000000000000", v)

	var fromBytes TokenAmount
	require.NoError(t, fromBytes.Scan([]byte("42")))
	assert.Equal(t, "42", fromBytes.String())

	var empty TokenAmount
	require.NoError(t, empty.Scan(nil))
	assert.True(t, empty.IsZero())

	var bad TokenAmount
	assert.Error(t, bad.Scan("xyz"))
}

func TestJSONRoundTrip(t *testing.T) {
	supply := WholeTokens(690000)
	b, err := json.Marshal(supply)
	require.NoError(t, err)
	assert.Equal(t, `"690000000000000000000000"`, string(b))

	var decoded TokenAmount
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, 0, decoded.Cmp(supply))

	// bare numbers from request bodies are accepted too
	var fromNumber TokenAmount
	require.NoError(t, json.Unmarshal([]byte("12345"), &fromNumber))
	assert.Equal(t, "12345", fromNumber.String())
}
