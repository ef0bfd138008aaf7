package accounting

import (
	"testing"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"2.675", "2.68"},
		{"-1.005", "-1.01"},
		{"200", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, RoundMoney(dec(tt.in)).Equal(dec(tt.want)), "got %s", RoundMoney(dec(tt.in)))
		})
	}
}

func TestRoundQuantity(t *testing.T) {
	assert.True(t, RoundQuantity(dec("1.23455")).Equal(dec("1.2346")))
}

func TestHasMaxPlaces(t *testing.T) {
	assert.True(t, HasMaxPlaces(dec("100.00"), 2))
	assert.True(t, HasMaxPlaces(dec("1.500"), 2))
	assert.False(t, HasMaxPlaces(dec("1.005"), 2))
	assert.True(t, HasMaxPlaces(dec("0.1234"), 4))
	assert.False(t, HasMaxPlaces(dec("0.12345"), 4))
}

func TestLineGross(t *testing.T) {
	assert.True(t, LineGross(dec("2"), dec("100.00")).Equal(dec("200.00")))
	assert.True(t, LineGross(dec("0.3333"), dec("10.00")).Equal(dec("3.33")))
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		weights []string
		want    []string
	}{
		{"even split", "10.00", []string{"50", "50"}, []string{"5", "5"}},
		{"thirds", "10.00", []string{"1", "1", "1"}, []string{"3.34", "3.33", "3.33"}},
		{"weighted", "9.99", []string{"100", "200"}, []string{"3.33", "6.66"}},
		{"zero weight skipped", "1.00", []string{"0", "30", "10"}, []string{"0", "0.75", "0.25"}},
		{"zero amount", "0", []string{"1", "2"}, []string{"0", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := make([]decimal.Decimal, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = dec(w)
			}
			got, err := Prorate(dec(tt.amount), weights)
			require.NoError(t, err)
			sum := decimal.Zero
			for i, g := range got {
				assert.True(t, g.Equal(dec(tt.want[i])), "share %d: got %s want %s", i, g, tt.want[i])
				sum = sum.Add(g)
			}
			assert.True(t, sum.Equal(RoundMoney(dec(tt.amount))))
		})
	}
}

func TestProrate_NoWeight(t *testing.T) {
	_, err := Prorate(dec("5.00"), []decimal.Decimal{decimal.Zero})
	assert.ErrorIs(t, err, ErrNoWeight)
}

func TestSumSidesAndBalance(t *testing.T) {
	lines := []domain.DocumentAccountLine{
		{DebitAmount: dec("220.00"), CreditAmount: decimal.Zero},
		{DebitAmount: decimal.Zero, CreditAmount: dec("200.00")},
		{DebitAmount: decimal.Zero, CreditAmount: dec("20.00")},
	}
	d, c := SumSides(lines)
	assert.True(t, d.Equal(dec("220.00")))
	assert.True(t, c.Equal(dec("220.00")))
	assert.True(t, IsBalanced(lines))
	assert.False(t, IsBalanced(lines[:2]))
}
