package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
	authctrl "maxelo/attendance/internal/controller/http/v1/auth"
	"maxelo/attendance/internal/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUser struct {
	users map[string]entity.User

	updated map[int]string
}

func (f *fakeUser) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	u, ok := f.users[email]
	if !ok {
		return entity.User{}, web.NewRequestError(errInvalidCredentials, http.StatusUnauthorized)
	}
	return u, nil
}

func (f *fakeUser) VerifyReset(ctx context.Context, userID int, email string) error {
	u, ok := f.users[email]
	if !ok || u.ID != userID {
		return web.NewRequestError(errNoSuchUser, http.StatusBadRequest)
	}
	return nil
}

func (f *fakeUser) UpdatePassword(ctx context.Context, userID int, newPassword string) error {
	f.updated[userID] = newPassword
	return nil
}

var (
	errInvalidCredentials = &mismatchErr{"invalid email or password"}
	errNoSuchUser         = &mismatchErr{"no account matches the supplied details"}
)

type mismatchErr struct{ msg string }

func (e *mismatchErr) Error() string { return e.msg }

type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *memoryStore) Del(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func str(s string) *string { return &s }

func testUsers(t *testing.T) *fakeUser {
	t.Helper()

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	employeeHash, err := bcrypt.GenerateFromPassword([]byte("employee-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	admin := entity.User{
		Names:    str("Thabo"),
		Surname:  str("Nkosi"),
		Email:    str("thabo@maxelo.co.za"),
		Password: str(string(adminHash)),
		Role:     str("admin"),
	}
	admin.ID = 1

	employee := entity.User{
		Names:    str("Jane"),
		Surname:  str("Mokoena"),
		Email:    str("jane@maxelo.co.za"),
		Password: str(string(employeeHash)),
		Role:     str("employee"),
	}
	employee.ID = 2

	return &fakeUser{
		users: map[string]entity.User{
			*admin.Email:    admin,
			*employee.Email: employee,
		},
		updated: map[int]string{},
	}
}

func newAuthApp(t *testing.T) (*web.App, *fakeUser) {
	t.Helper()

	users := testUsers(t)
	ctrl := authctrl.NewController(users, auth.New("test-secret", newMemoryStore()))

	app := web.NewApp()
	app.Post("/login", ctrl.SignIn)
	app.Get("/logout", ctrl.SignOut)
	app.Post("/reset_password", ctrl.ResetPassword)
	app.Post("/reset_password_form", ctrl.SubmitNewPassword)

	return app, users
}

func postForm(app *web.App, path, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func postLogin(app *web.App, email, password, userType string) *httptest.ResponseRecorder {
	return postForm(app, "/login", "email="+email+"&password="+password+"&user_type="+userType)
}

func TestSignInAdmin(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "thabo@maxelo.co.za", "admin-pass", "admin")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	for _, want := range []string{`"view":"admin"`, `"redirect":"/dashboard/admin"`, `"full_name":"Thabo Nkosi"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body = %q, missing %s", body, want)
		}
	}

	found := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.CookieName && cookie.Value != "" {
			found = true
			if !cookie.HttpOnly {
				t.Error("session cookie must be http-only")
			}
		}
	}
	if !found {
		t.Error("expected a session cookie on successful login")
	}
}

func TestSignInAdminThroughEmployeeView(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "thabo@maxelo.co.za", "admin-pass", "employee")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"view":"employee"`) || !strings.Contains(body, `"redirect":"/dashboard/employee"`) {
		t.Errorf("body = %q, want the employee view granted", body)
	}
}

func TestSignInEmployeeDeclaringAdmin(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "jane@maxelo.co.za", "employee-pass", "admin")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
}

func TestSignInWrongPassword(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "thabo@maxelo.co.za", "wrong", "admin")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid email or password") {
		t.Errorf("body = %q, want the generic credential message", w.Body.String())
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "nobody@maxelo.co.za", "whatever", "employee")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", w.Code, w.Body.String())
	}
}

func TestSignInMissingFields(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postLogin(app, "thabo@maxelo.co.za", "", "admin")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "password is required") {
		t.Errorf("body = %q, want the missing field named", w.Body.String())
	}
}

func TestSignOutWithoutSession(t *testing.T) {
	app, _ := newAuthApp(t)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func resetCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.ResetCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("expected a reset cookie")
	return nil
}

func TestResetPasswordFlow(t *testing.T) {
	app, users := newAuthApp(t)

	w := postForm(app, "/reset_password", "user_id=2&email=jane@maxelo.co.za")
	if w.Code != http.StatusOK {
		t.Fatalf("step one status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"reset_token"`) {
		t.Errorf("body = %q, want the reset flag echoed", w.Body.String())
	}
	cookie := resetCookie(t, w)

	req := httptest.NewRequest(http.MethodPost, "/reset_password_form", strings.NewReader("new_password=brand-new"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("step two status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"redirect":"/reset_password_successful"`) {
		t.Errorf("body = %q, want the success redirect", w.Body.String())
	}
	if users.updated[2] != "brand-new" {
		t.Errorf("updated = %v, want the flagged user's password changed", users.updated)
	}
}

func TestResetPasswordWrongPair(t *testing.T) {
	app, _ := newAuthApp(t)

	// jane's id with thabo's email
	w := postForm(app, "/reset_password", "user_id=2&email=thabo@maxelo.co.za")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.ResetCookieName && cookie.Value != "" {
			t.Error("no reset cookie may be issued for a mismatched pair")
		}
	}
}

func TestSubmitNewPasswordWithoutFlag(t *testing.T) {
	app, users := newAuthApp(t)

	w := postForm(app, "/reset_password_form", "new_password=brand-new")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
	if len(users.updated) != 0 {
		t.Errorf("updated = %v, nothing may change without a flag", users.updated)
	}
}

func TestSubmitNewPasswordForeignFlag(t *testing.T) {
	app, users := newAuthApp(t)

	w := postForm(app, "/reset_password_form", "new_password=brand-new&reset_token=never-issued")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
	if len(users.updated) != 0 {
		t.Errorf("updated = %v, nothing may change on a foreign flag", users.updated)
	}
}

func TestSubmitNewPasswordForDifferentUser(t *testing.T) {
	app, users := newAuthApp(t)

	w := postForm(app, "/reset_password", "user_id=2&email=jane@maxelo.co.za")
	if w.Code != http.StatusOK {
		t.Fatalf("step one status = %d, want 200: %s", w.Code, w.Body.String())
	}
	cookie := resetCookie(t, w)

	// the flag covers user 2 only
	req := httptest.NewRequest(http.MethodPost, "/reset_password_form", strings.NewReader("new_password=brand-new&user_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
	if len(users.updated) != 0 {
		t.Errorf("updated = %v, the foreign user's password must not change", users.updated)
	}
}

func TestSubmitNewPasswordFlagClearedAfterUse(t *testing.T) {
	app, _ := newAuthApp(t)

	w := postForm(app, "/reset_password", "user_id=2&email=jane@maxelo.co.za")
	if w.Code != http.StatusOK {
		t.Fatalf("step one status = %d, want 200: %s", w.Code, w.Body.String())
	}
	cookie := resetCookie(t, w)

	for attempt, want := range []int{http.StatusOK, http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/reset_password_form", strings.NewReader("new_password=brand-new"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)

		w = httptest.NewRecorder()
		app.ServeHTTP(w, req)

		if w.Code != want {
			t.Fatalf("attempt %d: status = %d, want %d: %s", attempt+1, w.Code, want, w.Body.String())
		}
	}
}
