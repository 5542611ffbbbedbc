package models

import "time"

// EmployeeSummary is one row of the admin directory: a profile joined with
// its identity email and payslip aggregates.
type EmployeeSummary struct {
	Profile
	Email         string     `json:"email"`
	PayslipCount  int        `json:"payslip_count"`
	LatestPayslip *time.Time `json:"latest_payslip,omitempty"`
}
