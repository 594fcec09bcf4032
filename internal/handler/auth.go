package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steppecoffee/cafe-booking/internal/model"
	"github.com/steppecoffee/cafe-booking/internal/repository"
	"github.com/steppecoffee/cafe-booking/internal/utils"
)

// StaffStore looks up staff accounts for login.
// *repository.StaffRepo satisfies it.
type StaffStore interface {
	GetByEmail(ctx context.Context, email string) (model.Staff, error)
}

// AuthHandler implements staff login for the admin dashboard. Guest
// identity on the public site is handled by an external provider; the
// only accounts this service issues tokens for are staff.
type AuthHandler struct {
	Staff     StaffStore
	JWTSecret string
	AccessTTL int // minutes
}

// NewAuthHandler constructs an AuthHandler; the store must be non-nil.
func NewAuthHandler(staff StaffStore, secret string, ttlMin int) *AuthHandler {
	if staff == nil {
		panic("nil staff store passed to NewAuthHandler")
	}
	return &AuthHandler{Staff: staff, JWTSecret: secret, AccessTTL: ttlMin}
}

// Login handles POST /v1/staff/login. On valid credentials it returns
// a short-lived HS256 access token; there is no refresh flow, the
// dashboard asks for a new login when the token expires. Unknown email
// and wrong password return the same response so the endpoint does not
// leak which staff accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	staff, err := h.Staff.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(staff.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.JWTSecret, staff.ID, staff.Role, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token.Token,
		"expires_at":   token.Exp.Format(time.RFC3339),
		"role":         staff.Role,
	})
}
