package model

import "time"

// Staff is an administrative user of the booking dashboard. Guest
// identity on the public site is handled by an external provider; this
// table only backs staff logins for the admin API.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email.
//  PasswordHash – bcrypt hash of the password.
//  Role         – access level, currently always ADMIN.
//  CreatedAt    – row creation timestamp.
type Staff struct {
	ID           uint64    // staff.id
	Email        string    // staff.email
	PasswordHash string    // staff.password_hash
	Role         string    // staff.role
	CreatedAt    time.Time // staff.created_at
}
