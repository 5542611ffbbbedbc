package models

// Profile holds employee data shown in the portal. One-to-one with
// Identity: Profile.ID equals the identity id it belongs to.
//
// CPF, Department and Position are optional; an empty string is stored as
// NULL. MustChangePassword starts true for admin-provisioned accounts and
// is flipped to false by the owner's first password change.
type Profile struct {
	ID                 string `json:"id"`
	FullName           string `json:"full_name"`
	CPF                string `json:"cpf,omitempty"`
	Department         string `json:"department,omitempty"`
	Position           string `json:"position,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
}
