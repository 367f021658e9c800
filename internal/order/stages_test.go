package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageIndex(t *testing.T) {
	tests := []struct {
		status   Status
		expected int
	}{
		{StatusAwaitingPayment, 0},
		{StatusPaymentConfirmed, 1},
		{StatusStockReserved, 2},
		{StatusReadyForShipment, 3},
		{StatusShipped, 4},
		{StatusDelivered, 5},
		{StatusCancelled, -1},
		{StatusPaymentFailed, -1},
		{StatusStockReservationFailed, -1},
		{Status("SOMETHING_NEW"), -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, StageIndex(tt.status))
		})
	}
}

func TestStageStateAt_Shipped(t *testing.T) {
	// SHIPPED sits at index 4: everything before is completed, the last
	// stage is still pending.
	for i := 0; i < 4; i++ {
		assert.Equal(t, StageCompleted, StageStateAt(StatusShipped, i), "stage %d", i)
	}
	assert.Equal(t, StageCurrent, StageStateAt(StatusShipped, 4))
	assert.Equal(t, StagePending, StageStateAt(StatusShipped, 5))
}

func TestStageStateAt_Cancelled_NoCurrentStage(t *testing.T) {
	for i := range Stages {
		assert.NotEqual(t, StageCurrent, StageStateAt(StatusCancelled, i), "stage %d", i)
		assert.Equal(t, StagePending, StageStateAt(StatusCancelled, i))
	}
}

func TestStages_CanonicalOrder(t *testing.T) {
	assert.Len(t, Stages, 6)
	assert.Equal(t, StatusAwaitingPayment, Stages[0])
	assert.Equal(t, StatusDelivered, Stages[5])
}
