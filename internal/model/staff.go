package model

import "time"

// Staff represents an administrative user who manages courts, sports
// and slots.  Staff members authenticate separately from students and
// carry the ADMIN role in issued tokens.
type Staff struct {
    ID           uint64    `json:"id"`                   // staff.id
    Name         string    `json:"name"`                 // staff.name
    Email        string    `json:"email"`                // staff.email
    PasswordHash string    `json:"-"`                    // staff.password_hash, never serialized
    Role         string    `json:"role"`                 // staff.role (e.g. Admin, Manager)
    ReportsTo    *uint64   `json:"reports_to,omitempty"` // staff.reports_to (nullable self reference)
    CreatedAt    time.Time `json:"created_at"`           // staff.created_at
    UpdatedAt    time.Time `json:"updated_at"`           // staff.updated_at
}
