package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		discount *Discount
		total    int64
		want     int64
	}{
		{
			name:     "nil discount",
			discount: nil,
			total:    100000,
			want:     0,
		},
		{
			name:     "percent whole result",
			discount: &Discount{Type: TypePercent, Value: 10},
			total:    100000,
			want:     10000,
		},
		{
			name:     "percent rounds half up",
			discount: &Discount{Type: TypePercent, Value: 15},
			total:    333,
			want:     50, // 49.95 rounds to 50
		},
		{
			name:     "percent rounds down below half",
			discount: &Discount{Type: TypePercent, Value: 13},
			total:    333,
			want:     43, // 43.29
		},
		{
			name:     "hundred percent",
			discount: &Discount{Type: TypePercent, Value: 100},
			total:    75000,
			want:     75000,
		},
		{
			name:     "fixed below total",
			discount: &Discount{Type: TypeFixed, Value: 50000},
			total:    100000,
			want:     50000,
		},
		{
			name:     "fixed capped at total",
			discount: &Discount{Type: TypeFixed, Value: 500000},
			total:    100000,
			want:     100000,
		},
		{
			name:     "zero total",
			discount: &Discount{Type: TypeFixed, Value: 50000},
			total:    0,
			want:     0,
		},
		{
			name:     "negative total",
			discount: &Discount{Type: TypePercent, Value: 10},
			total:    -100,
			want:     0,
		},
		{
			name:     "unknown type",
			discount: &Discount{Type: "bogus", Value: 10},
			total:    100000,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.discount, tt.total))
		})
	}
}
