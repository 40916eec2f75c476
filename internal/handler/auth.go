package handler // handler implements HTTP endpoints for authentication

import (
    "database/sql" // sql.ErrNoRows signals a missing row on lookups
    "errors"
    "net/http" // standard HTTP status codes
    "strings"  // string trimming for request validation

    "github.com/labstack/echo/v4" // echo provides the request context

    "github.com/iliyamo/sports-court-booking/internal/config"
    "github.com/iliyamo/sports-court-booking/internal/model"
    "github.com/iliyamo/sports-court-booking/internal/repository"
    "github.com/iliyamo/sports-court-booking/internal/utils"
)

// Role claim values issued in access tokens.  Students book slots,
// admins maintain the catalog and the booking backlog.
const (
    RoleStudent = "STUDENT"
    RoleAdmin   = "ADMIN"
)

// AuthHandler bundles the repositories and configuration needed by the
// authentication endpoints.  Students and staff authenticate against
// separate tables but share the refresh token store.
type AuthHandler struct {
    Students *repository.StudentRepo
    Staff    *repository.StaffRepo
    Tokens   *repository.TokenRepo
    Cfg      config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(students *repository.StudentRepo, staff *repository.StaffRepo, tokens *repository.TokenRepo, cfg config.Config) *AuthHandler {
    return &AuthHandler{Students: students, Staff: staff, Tokens: tokens, Cfg: cfg}
}

// registerRequest is the JSON body accepted by Register.
type registerRequest struct {
    StudentNo  string `json:"student_no"`
    FirstName  string `json:"first_name"`
    LastName   string `json:"last_name"`
    Email      string `json:"email"`
    Password   string `json:"password"`
    Department string `json:"department"`
    Year       uint8  `json:"year"`
}

// loginRequest is the JSON body accepted by Login and AdminLogin.
type loginRequest struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// refreshRequest carries the raw refresh token for Refresh and Logout.
type refreshRequest struct {
    RefreshToken string `json:"refresh_token"`
}

// Register creates a new student account.  Email and student number
// must be unique; passwords are stored only as bcrypt hashes.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.StudentNo = strings.TrimSpace(req.StudentNo)
    req.Email = strings.TrimSpace(req.Email)
    if req.StudentNo == "" || req.FirstName == "" || req.LastName == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_no, first_name, last_name and email are required"})
    }
    if len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
    }

    s := model.Student{
        StudentNo:  req.StudentNo,
        FirstName:  req.FirstName,
        LastName:   req.LastName,
        Email:      req.Email,
        Department: req.Department,
        Year:       req.Year,
    }
    id, err := h.Students.Create(c.Request().Context(), &s, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrStudentExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "student number or email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": s.Email})
}

// Login authenticates a student and issues an access/refresh token
// pair.  Suspended accounts are rejected even with a valid password.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    s, err := h.Students.GetByEmail(c.Request().Context(), req.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !utils.VerifyPassword(s.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    if s.Status != "Active" {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "account suspended"})
    }
    return h.issueTokens(c, s.ID, RoleStudent)
}

// AdminLogin authenticates a staff member and issues tokens carrying
// the ADMIN role.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
    var req loginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    st, err := h.Staff.GetByEmail(c.Request().Context(), req.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !utils.VerifyPassword(st.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    return h.issueTokens(c, st.ID, RoleAdmin)
}

// Refresh rotates a refresh token: the presented token is revoked and
// a fresh access/refresh pair is issued for the same principal.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshRequest
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }
    ctx := c.Request().Context()
    hash := utils.HashRefreshRaw(req.RefreshToken)
    subjectID, role, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
    }
    // Revoke before reissue so a replayed old token cannot mint
    // another pair.
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return h.issueTokens(c, subjectID, role)
}

// RefreshAccess issues a new access token against a valid refresh
// token without rotating it.  Clients use it when only the access
// token expired mid-session.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshRequest
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }
    subjectID, role, err := h.Tokens.ValidateRefresh(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, subjectID, role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access_token": access.Token,
        "expires_at":   access.Exp,
    })
}

// Logout revokes the presented refresh token.  Access tokens are
// short-lived and simply expire.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshRequest
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }
    if err := h.Tokens.RevokeByHash(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LogoutAll revokes every active refresh token belonging to the
// authenticated principal, ending all of their sessions at once.
// Used when a device is lost or a refresh token may have leaked.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
    id, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    role, _ := c.Get("role").(string)
    if err := h.Tokens.RevokeAllForSubject(c.Request().Context(), id, role); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "all sessions revoked"})
}

// Me returns the authenticated principal's profile.  The shape of the
// response depends on the role claim in the access token.
func (h *AuthHandler) Me(c echo.Context) error {
    id, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    role, _ := c.Get("role").(string)
    ctx := c.Request().Context()
    switch role {
    case RoleAdmin:
        st, err := h.Staff.GetByID(ctx, id)
        if err != nil {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "staff not found"})
        }
        return c.JSON(http.StatusOK, echo.Map{
            "id": st.ID, "name": st.Name, "email": st.Email, "role": st.Role,
        })
    default:
        s, err := h.Students.GetByID(ctx, id)
        if err != nil {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
        }
        return c.JSON(http.StatusOK, echo.Map{
            "id":         s.ID,
            "student_no": s.StudentNo,
            "first_name": s.FirstName,
            "last_name":  s.LastName,
            "email":      s.Email,
            "department": s.Department,
            "year":       s.Year,
            "status":     s.Status,
        })
    }
}

// issueTokens mints an access token and a refresh token for the given
// principal, persists the refresh token hash, and writes both to the
// response.
func (h *AuthHandler) issueTokens(c echo.Context, subjectID uint64, role string) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, subjectID, role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    if err := h.Tokens.StoreRefresh(c.Request().Context(), subjectID, role, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access_token":  access.Token,
        "expires_at":    access.Exp,
        "refresh_token": refresh.Raw,
    })
}
