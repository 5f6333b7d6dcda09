package user

import (
	"net/http"
	"reflect"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/repository/postgres/user"
	"maxelo/attendance/internal/service"
)

type Controller struct {
	user User
}

func NewController(user User) *Controller {
	return &Controller{user}
}

func (uc Controller) GetUserList(c *web.Context) error {
	var filter user.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.user.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetUserDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CreateUser(c *web.Context) error {
	var request user.CreateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":     response,
		"redirect": "/added-employee-successful",
		"status":   true,
	}, http.StatusOK)
}

func (uc Controller) UpdateUser(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request user.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	if err := uc.user.UpdateColumns(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeleteUser(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.user.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// ExportEmployees streams the employee directory as a spreadsheet.
func (uc Controller) ExportEmployees(c *web.Context) error {
	list, err := uc.user.GetExportList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	employees := make([]service.Employee, 0, len(list))
	for _, row := range list {
		employees = append(employees, service.Employee{
			ID:       row.ID,
			Names:    row.Names,
			Surname:  row.Surname,
			Phone:    row.Phone,
			Email:    row.Email,
			Role:     row.Role,
			Position: row.Position,
		})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Status(http.StatusOK)

	if err := service.WriteEmployeeSheet(employees, c.Writer); err != nil {
		return c.RespondError(err)
	}
	return nil
}

// GetBadgeSheet streams a PDF of QR badges, one per employee.
func (uc Controller) GetBadgeSheet(c *web.Context) error {
	list, err := uc.user.GetExportList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	employees := make([]service.Employee, 0, len(list))
	for _, row := range list {
		employees = append(employees, service.Employee{
			ID:      row.ID,
			Names:   row.Names,
			Surname: row.Surname,
			Email:   row.Email,
		})
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="employee_badges.pdf"`)
	c.Status(http.StatusOK)

	if err := service.WriteBadgeSheet(employees, c.Writer); err != nil {
		return c.RespondError(err)
	}
	return nil
}

// AddEmployeeForm answers the add-employee page GET; the frontend
// renders the form and posts back to the same path.
func (uc Controller) AddEmployeeForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "submit the new employee's details",
		"status": true,
	}, http.StatusOK)
}

// AddedSuccessful is the informational landing after creating an
// employee.
func (uc Controller) AddedSuccessful(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"data":   "employee added successfully",
		"status": true,
	}, http.StatusOK)
}
