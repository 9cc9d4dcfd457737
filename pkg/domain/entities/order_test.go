package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannedOrder_Validation(t *testing.T) {
	order, err := NewPlannedOrder("PART123", 30, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, order.ReceiptBucket)
	assert.Equal(t, 2, order.ReleaseBucket)
	assert.False(t, order.PastDue)

	testCases := []struct {
		name        string
		item        ItemCode
		quantity    Quantity
		leadTime    int
		expectError string
	}{
		{"empty item code", "", 5, 1, "item code cannot be empty"},
		{"zero quantity", "PART", 0, 1, "quantity must be positive, got 0"},
		{"negative quantity", "PART", -5, 1, "quantity must be positive, got -5"},
		{"negative lead time", "PART", 5, -1, "lead time cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlannedOrder(tc.item, tc.quantity, 3, tc.leadTime)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestPlannedOrder_PastDueRelease(t *testing.T) {
	order, err := NewPlannedOrder("Z", 10, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, -5, order.ReleaseBucket)
	assert.True(t, order.PastDue)
}
