package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateEmployeeMailData struct {
	Name       string `json:"name"`
	EmployeeNo string `json:"employeeNo"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type ResetPasswordMailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ShiftRequestCreatedMailData struct {
	RequesterName string `json:"requesterName"`
	RequestType   string `json:"requestType"`
	OriginalShift string `json:"originalShift"`
	TargetShift   string `json:"targetShift"`
	Reason        string `json:"reason"`
	RequestTime   string `json:"requestTime"`
}

type ShiftRequestApprovedMailData struct {
	EmployeeName  string `json:"employeeName"`
	OriginalShift string `json:"originalShift"`
	NewShift      string `json:"newShift"`
	ApprovalDate  string `json:"approvalDate"`
	ApprovalNotes string `json:"approvalNotes"`
}

type ShiftRequestRejectedMailData struct {
	EmployeeName  string `json:"employeeName"`
	OriginalShift string `json:"originalShift"`
	ApprovalDate  string `json:"approvalDate"`
	ApprovalNotes string `json:"approvalNotes"`
}
