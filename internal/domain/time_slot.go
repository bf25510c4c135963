package domain

import "time"

type TimeSlot struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StartTime      string    `json:"startTime"` // HH:MM:SS
	EndTime        string    `json:"endTime"`   // HH:MM:SS
	RequiredPeople int32     `json:"requiredPeople"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
