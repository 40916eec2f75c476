package model

import "time"

// Student represents a member who can reserve court slots.  Students
// authenticate with email and password and are identified to the
// booking engine by their numeric ID.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types.
//
// Fields:
//  ID           – primary key identifier of the student.
//  StudentNo    – institutional registration number, unique.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Department   – department the student belongs to.
//  Year         – year of study.
//  Status       – account status (Active, Inactive, Suspended).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Student struct {
    ID           uint64    // students.id
    StudentNo    string    // students.student_no
    FirstName    string    // students.first_name
    LastName     string    // students.last_name
    Email        string    // students.email
    PasswordHash string    // students.password_hash
    Department   string    // students.department
    Year         uint8     // students.year
    Status       string    // students.status
    CreatedAt    time.Time // students.created_at
    UpdatedAt    time.Time // students.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Tokens
// are owned by a subject (student or staff, distinguished by role)
// and carry metadata for expiry and revocation.  The plain token is
// not stored; only its SHA-256 hash.
//
// Fields:
//  ID          – primary key identifier.
//  SubjectID   – owner of the token (student or staff ID).
//  SubjectRole – role of the owner (STUDENT or ADMIN).
//  TokenHash   – SHA-256 hex digest of the token value.
//  ExpiresAt   – expiration timestamp of the token.
//  RevokedAt   – when the token was revoked (null if still active).
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
    ID          uint64     // refresh_tokens.id
    SubjectID   uint64     // refresh_tokens.subject_id
    SubjectRole string     // refresh_tokens.subject_role
    TokenHash   string     // refresh_tokens.token_hash
    ExpiresAt   time.Time  // refresh_tokens.expires_at
    RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt   time.Time  // refresh_tokens.created_at
}
