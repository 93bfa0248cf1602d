package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{"whole pounds", Pence(2500), "£25.00"},
		{"pence", Pence(5), "£0.05"},
		{"negative", Pence(-550), "-£5.50"},
		{"euro", NewMoney(1999, EUR), "€19.99"},
		{"default currency", NewMoney(100, ""), "£1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.money.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	sum, err := Pence(2500).Add(Pence(1500))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sum.Minor())

	diff, err := Pence(2500).Sub(Pence(4000))
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.Equal(t, int64(1500), diff.Abs().Minor())

	_, err = Pence(1).Add(NewMoney(1, EUR))
	assert.Error(t, err)
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Pence(5500))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":5500,"currency":"GBP","display":"£55.00"}`, string(data))
}
