package utils

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_StopReturnsElapsedDuration(t *testing.T) {
	timer := NewTimer("unit_test_op", zerolog.Nop())
	time.Sleep(time.Millisecond)

	elapsed := timer.Stop()

	assert.Greater(t, elapsed, time.Duration(0))
}

func TestTimer_StopWithContextReturnsElapsedDuration(t *testing.T) {
	timer := NewTimer("unit_test_op", zerolog.Nop())
	time.Sleep(time.Millisecond)

	elapsed := timer.StopWithContext(map[string]interface{}{
		"outcome": "success",
		"count":   3,
	})

	assert.Greater(t, elapsed, time.Duration(0))
}

func TestOperationTimer_LogsOnCompletion(t *testing.T) {
	done := OperationTimer("unit_test_operation", zerolog.Nop())
	done()
}

func TestMeasureDBQuery_ReportsRowsAffected(t *testing.T) {
	done := MeasureDBQuery("unit_test_query", zerolog.Nop())
	done(5)
}
