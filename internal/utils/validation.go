package utils

import (
	"fmt"
	"time"
)

// ValidateTimeSlotRange 检查时间段的起止时间格式并确保结束时间晚于开始时间
func ValidateTimeSlotRange(startTime string, endTime string) error {
	start, err := time.Parse("15:04:05", startTime)
	if err != nil {
		return fmt.Errorf("开始时间格式错误，应为 HH:MM:SS")
	}
	end, err := time.Parse("15:04:05", endTime)
	if err != nil {
		return fmt.Errorf("结束时间格式错误，应为 HH:MM:SS")
	}
	if !end.After(start) {
		return fmt.Errorf("结束时间必须晚于开始时间")
	}
	return nil
}
