package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusLeave    EmployeeStatus = "leave"
)

type Employee struct {
	ID               int64          `json:"id"`
	EmployeeNo       string         `json:"employeeNo"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	PasswordHash     string         `json:"-"`
	Phone            string         `json:"phone"`
	Position         string         `json:"position"`
	Role             Role           `json:"role"`
	Status           EmployeeStatus `json:"status"`
	HireDate         *Date          `json:"hireDate"`
	MaxShiftsPerWeek int32          `json:"maxShiftsPerWeek"`
	MaxShiftsPerDay  int32          `json:"maxShiftsPerDay"`
	CreatedAt        time.Time      `json:"createdAt"`
	Version          int32          `json:"-"`
}
