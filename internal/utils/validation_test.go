package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTimeSlotRange(t *testing.T) {
	assert.NoError(t, ValidateTimeSlotRange("08:00:00", "12:00:00"))
	assert.Error(t, ValidateTimeSlotRange("12:00:00", "08:00:00"))
	assert.Error(t, ValidateTimeSlotRange("08:00:00", "08:00:00"))
	assert.Error(t, ValidateTimeSlotRange("8点", "12:00:00"))
	assert.Error(t, ValidateTimeSlotRange("08:00:00", "中午"))
}
