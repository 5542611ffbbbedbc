package models

import "time"

// Payslip is the metadata row for one employee's payslip in one reference
// month. ReferenceMonth is always the first day of the month. FileURL is
// the object-store key, not a public URL; empty means no binary attached
// yet. ViewedAt and DownloadedAt are write-once markers: set on the first
// view/download, never overwritten or cleared.
type Payslip struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ReferenceMonth time.Time  `json:"reference_month"`
	FileURL        string     `json:"file_url,omitempty"`
	FileName       string     `json:"file_name,omitempty"`
	IssuedByAdmin  bool       `json:"issued_by_admin"`
	ViewedAt       *time.Time `json:"viewed_at,omitempty"`
	DownloadedAt   *time.Time `json:"downloaded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
