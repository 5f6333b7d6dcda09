package web

import (
	"context"
	std_errors "errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request context plus helpers for binding, parameter
// parsing and the project-wide response envelope.
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []error
	queryErrs []error
}

func NewContext(c *gin.Context) *Context {
	return &Context{Context: c, Ctx: c.Request.Context()}
}

// BindFunc binds the request body (json or form) into obj and checks that
// the named fields are present and non-empty after trimming.
func (c *Context) BindFunc(obj interface{}, required ...string) error {
	if err := c.ShouldBind(obj); err != nil {
		return NewRequestError(errors.Wrap(err, "parsing request body"), http.StatusBadRequest)
	}

	return RequireFields(obj, required...)
}

// Respond writes data as JSON with the given status.
func (c *Context) Respond(data interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError converts err into the error envelope. Request errors keep
// their status and message; anything else is masked as an internal error.
func (c *Context) RespondError(err error) error {
	if err == nil {
		return nil
	}
	if c.Writer.Written() {
		return nil
	}

	var webErr *Error
	if std_errors.As(err, &webErr) {
		status := webErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":  webErr.Err.Error(),
			"status": false,
		})
		return nil
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":  "internal server error",
		"status": false,
	})
	return nil
}

// GetParam parses the named path parameter as kind. Failures are collected
// and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	raw := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.paramErrs = append(c.paramErrs, errors.Errorf("invalid %s parameter", name))
			return 0
		}
		return v
	case reflect.String:
		return raw
	}

	c.paramErrs = append(c.paramErrs, errors.Errorf("unsupported kind for %s parameter", name))
	return nil
}

func (c *Context) ValidParam() error {
	if len(c.paramErrs) > 0 {
		return NewRequestError(c.paramErrs[0], http.StatusBadRequest)
	}
	return nil
}

// GetQueryFunc parses the named query parameter as kind, returning a typed
// pointer that is nil when the parameter is absent.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	raw, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Errorf("invalid %s query parameter", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Errorf("invalid %s query parameter", name))
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok {
			return (*string)(nil)
		}
		return &raw
	}

	c.queryErrs = append(c.queryErrs, errors.Errorf("unsupported kind for %s query parameter", name))
	return nil
}

func (c *Context) ValidQuery() error {
	if len(c.queryErrs) > 0 {
		return NewRequestError(c.queryErrs[0], http.StatusBadRequest)
	}
	return nil
}
