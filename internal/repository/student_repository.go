package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/utils"
)

// StudentRepo manages persistence for students, the principals on
// whose behalf bookings are made.
type StudentRepo struct{ DB *sql.DB }

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// ErrStudentExists is returned when the student number or email is
// already registered.
var ErrStudentExists = errors.New("student already exists")

const studentColumns = `id, student_no, first_name, last_name, email, password_hash, department, year, status, created_at, updated_at`

func scanStudent(scan func(dest ...interface{}) error) (model.Student, error) {
    var s model.Student
    err := scan(&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Email, &s.PasswordHash,
        &s.Department, &s.Year, &s.Status, &s.CreatedAt, &s.UpdatedAt)
    return s, err
}

// Create inserts a student with a bcrypt-hashed password and returns
// the generated ID.  Duplicate student numbers or emails yield
// ErrStudentExists.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student, password string, cost int) (uint64, error) {
    s.Email = strings.ToLower(strings.TrimSpace(s.Email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO students (student_no, first_name, last_name, email, password_hash, department, year) VALUES (?,?,?,?,?,?,?)`,
        s.StudentNo, s.FirstName, s.LastName, s.Email, hash, s.Department, s.Year)
    if err != nil {
        // MySQL duplicate-key errors carry code 1062.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrStudentExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a student by normalized email.
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (model.Student, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return scanStudent(r.DB.QueryRowContext(ctx,
        `SELECT `+studentColumns+` FROM students WHERE email=? LIMIT 1`, email).Scan)
}

// GetByID fetches a student by id.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
    return scanStudent(r.DB.QueryRowContext(ctx,
        `SELECT `+studentColumns+` FROM students WHERE id=? LIMIT 1`, id).Scan)
}
