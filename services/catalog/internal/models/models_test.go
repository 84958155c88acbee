package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stock int
		want  AvailabilityStatus
	}{
		{stock: -1, want: OutOfStock},
		{stock: 0, want: OutOfStock},
		{stock: 1, want: LowStock},
		{stock: 5, want: LowStock},
		{stock: 6, want: InStock},
		{stock: 1000, want: InStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AvailabilityFor(tt.stock), "stock=%d", tt.stock)
	}
}
