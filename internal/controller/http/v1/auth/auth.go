package auth

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
	"maxelo/attendance/internal/repository/postgres/user"
)

type Controller struct {
	user User
	auth *auth.Auth
}

func NewController(user User, a *auth.Auth) *Controller {
	return &Controller{user: user, auth: a}
}

// SignIn validates credentials and the declared role, then establishes
// the 7 day session: a signed token set as a cookie and echoed in the
// body for API clients.
func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data, "Email", "Password", "UserType"); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetByEmail(c.Ctx, data.Email)
	if err != nil {
		return c.RespondError(err)
	}

	if detail.Password == nil || detail.Role == nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid email or password"), http.StatusUnauthorized))
	}

	if err = bcrypt.CompareHashAndPassword([]byte(*detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid email or password"), http.StatusUnauthorized))
	}

	view, err := auth.ResolveView(data.UserType, *detail.Role)
	if err != nil {
		if errors.Is(err, auth.ErrRoleMismatch) {
			return c.RespondError(web.NewRequestError(err, http.StatusForbidden))
		}
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	role, err := auth.NormalizeRole(*detail.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusInternalServerError))
	}

	fullName := strings.TrimSpace(stringValue(detail.Names) + " " + stringValue(detail.Surname))

	token, err := uc.auth.GenerateToken(auth.Claims{
		UserID:   detail.ID,
		FullName: fullName,
		Email:    stringValue(detail.Email),
		Role:     role,
		View:     view,
	})
	if err != nil {
		return c.RespondError(err)
	}

	c.SetCookie(auth.CookieName, token, int(auth.SessionTTL.Seconds()), "/", "", false, true)

	redirect := "/dashboard/employee"
	if view == auth.RoleAdmin {
		redirect = "/dashboard/admin"
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"token":     token,
			"full_name": fullName,
			"role":      role,
			"view":      view,
			"redirect":  redirect,
		},
		"error": nil,
	}, http.StatusOK)
}

// SignOut revokes the current session token, if any, and clears the
// cookie. Always succeeds.
func (uc Controller) SignOut(c *web.Context) error {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		if claims, err := uc.auth.ValidateToken(c.Ctx, cookie); err == nil {
			if err := uc.auth.Revoke(c.Ctx, claims); err != nil {
				return c.RespondError(err)
			}
		}
	}

	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)

	return c.Respond(map[string]interface{}{
		"data":   "you have been logged out",
		"status": true,
	}, http.StatusOK)
}

// ResetPassword is step one of the reset flow: the submitted pair must
// match a user before a short-lived reset flag is issued for that user
// id only.
func (uc Controller) ResetPassword(c *web.Context) error {
	var data user.VerifyResetRequest

	if err := c.BindFunc(&data, "UserID", "Email"); err != nil {
		return c.RespondError(err)
	}

	if err := uc.user.VerifyReset(c.Ctx, *data.UserID, *data.Email); err != nil {
		return c.RespondError(err)
	}

	flag, err := uc.auth.AuthorizeReset(c.Ctx, *data.UserID)
	if err != nil {
		return c.RespondError(err)
	}

	c.SetCookie(auth.ResetCookieName, flag, int(auth.ResetTTL.Seconds()), "/", "", false, true)

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"reset_token": flag,
			"redirect":    "/reset_password_form",
		},
	}, http.StatusOK)
}

// SubmitNewPassword is step two: only a session holding a live reset flag
// may overwrite the password, and only for the user the flag was issued
// for.
func (uc Controller) SubmitNewPassword(c *web.Context) error {
	var data user.NewPasswordRequest

	if err := c.BindFunc(&data, "NewPassword"); err != nil {
		return c.RespondError(err)
	}

	flag := ""
	if cookie, err := c.Cookie(auth.ResetCookieName); err == nil {
		flag = cookie
	}
	if flag == "" && data.ResetToken != nil {
		flag = *data.ResetToken
	}

	userID, err := uc.auth.ResetUserID(c.Ctx, flag)
	if err != nil {
		if errors.Is(err, auth.ErrResetNotAuthorized) {
			return c.RespondError(web.NewRequestError(err, http.StatusForbidden))
		}
		return c.RespondError(err)
	}

	if data.UserID != nil && *data.UserID != userID {
		return c.RespondError(web.NewRequestError(auth.ErrResetNotAuthorized, http.StatusForbidden))
	}

	if err := uc.user.UpdatePassword(c.Ctx, userID, *data.NewPassword); err != nil {
		return c.RespondError(err)
	}

	if err := uc.auth.ClearReset(c.Ctx, flag); err != nil {
		return c.RespondError(err)
	}
	c.SetCookie(auth.ResetCookieName, "", -1, "/", "", false, true)

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"redirect": "/reset_password_successful",
		},
	}, http.StatusOK)
}

// SignInForm answers the login page GET; the frontend renders the form
// and posts back to the same path.
func (uc Controller) SignInForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "submit email, password and user_type to log in",
		"status": true,
	}, http.StatusOK)
}

// ResetForm answers the reset page GET.
func (uc Controller) ResetForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "submit user_id and email to request a password reset",
		"status": true,
	}, http.StatusOK)
}

// NewPasswordForm answers the new-password page GET, step two of the
// reset flow.
func (uc Controller) NewPasswordForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "submit new_password to finish the reset",
		"status": true,
	}, http.StatusOK)
}

// ResetSuccessful is the informational landing after a completed reset.
func (uc Controller) ResetSuccessful(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "your password has been reset, please log in",
		"status": true,
	}, http.StatusOK)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
