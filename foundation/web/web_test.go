package web

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireFields(t *testing.T) {
	type form struct {
		Names    *string
		Email    *string
		Age      *int
		FullName string
	}

	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	t.Run("all present", func(t *testing.T) {
		f := form{Names: str("Jane"), Email: str("jane@maxelo.co.za"), Age: num(30), FullName: "Jane Mokoena"}
		if err := RequireFields(&f, "Names", "Email", "Age", "FullName"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("nil pointer", func(t *testing.T) {
		f := form{Email: str("jane@maxelo.co.za")}
		err := RequireFields(&f, "Names")
		requireStatus(t, err, http.StatusBadRequest)
		if !strings.Contains(err.Error(), "names is required") {
			t.Errorf("error = %q, want it to name the missing field", err)
		}
	})

	t.Run("blank string", func(t *testing.T) {
		f := form{Names: str("   ")}
		requireStatus(t, RequireFields(&f, "Names"), http.StatusBadRequest)
	})

	t.Run("nil struct pointer", func(t *testing.T) {
		requireStatus(t, RequireFields((*form)(nil), "Names"), http.StatusBadRequest)
	})

	t.Run("unknown field is a server fault", func(t *testing.T) {
		f := form{}
		requireStatus(t, RequireFields(&f, "Nonexistent"), http.StatusInternalServerError)
	})
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var webErr *Error
	if !errors.As(err, &webErr) {
		t.Fatalf("expected *web.Error, got %T: %v", err, err)
	}
	if webErr.Status != status {
		t.Fatalf("status = %d, want %d", webErr.Status, status)
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Names":       "names",
		"FullName":    "full_name",
		"EmployeeID":  "employee_id",
		"NewPassword": "new_password",
		"UserID":      "user_id",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAppErrorEnvelope(t *testing.T) {
	app := NewApp()
	app.Get("/boom", func(c *Context) error {
		return NewRequestError(errors.New("no open session"), http.StatusBadRequest)
	})
	app.Get("/opaque", func(c *Context) error {
		return errors.New("pq: connection refused")
	})
	app.Get("/ok", func(c *Context) error {
		return c.Respond(map[string]interface{}{"status": true}, http.StatusOK)
	})

	t.Run("request error keeps status and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "no open session") {
			t.Errorf("body = %q, want the request error message", w.Body.String())
		}
	})

	t.Run("opaque error is masked", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/opaque", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Errorf("body = %q, must not leak internal details", w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "internal server error") {
			t.Errorf("body = %q, want the masked message", w.Body.String())
		}
	})

	t.Run("success passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})
}

func TestContextQueryParsing(t *testing.T) {
	app := NewApp()
	app.Get("/list", func(c *Context) error {
		limit := c.GetQueryFunc(reflect.Int, "limit").(*int)
		search := c.GetQueryFunc(reflect.String, "search").(*string)
		if err := c.ValidQuery(); err != nil {
			return c.RespondError(err)
		}

		out := map[string]interface{}{"status": true}
		if limit != nil {
			out["limit"] = *limit
		}
		if search != nil {
			out["search"] = *search
		}
		return c.Respond(out, http.StatusOK)
	})

	t.Run("typed values", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list?limit=25&search=jane", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"limit":25`) || !strings.Contains(body, `"search":"jane"`) {
			t.Errorf("body = %q, want parsed query values", body)
		}
	})

	t.Run("absent values stay nil", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if strings.Contains(w.Body.String(), "limit") {
			t.Errorf("body = %q, absent parameter must not be echoed", w.Body.String())
		}
	})

	t.Run("malformed int is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list?limit=abc", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestContextParamParsing(t *testing.T) {
	app := NewApp()
	app.Get("/employee/:id", func(c *Context) error {
		id := c.GetParam(reflect.Int, "id").(int)
		if err := c.ValidParam(); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]interface{}{"id": id, "status": true}, http.StatusOK)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee/42", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":42`) {
		t.Errorf("body = %q, want the parsed id", w.Body.String())
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a malformed id", w.Code)
	}
}
