package attendance

import (
	"net/http"
	"reflect"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/repository/postgres/attendance"
	"maxelo/attendance/internal/service"
)

type Controller struct {
	attendance Attendance
}

func NewController(attendance Attendance) *Controller {
	return &Controller{attendance}
}

func (uc Controller) ClockIn(c *web.Context) error {
	var request attendance.CreateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ClockIn(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ClockOut(c *web.Context) error {
	response, err := uc.attendance.ClockOut(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetRegister(c *web.Context) error {
	filter, err := registerFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetRegister(c.Ctx, filter)
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

// ExportRegister streams the filtered register as a spreadsheet.
func (uc Controller) ExportRegister(c *web.Context) error {
	filter, err := registerFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	// the export is the whole filtered register, not one page of it
	filter.Limit = nil
	filter.Offset = nil
	filter.Page = nil

	list, _, err := uc.attendance.GetRegister(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	entries := make([]service.RegisterEntry, 0, len(list))
	for _, row := range list {
		entry := service.RegisterEntry{
			FullName:   row.FullName,
			Role:       row.Role,
			ClockIn:    row.ClockIn.Format("2006-01-02 15:04"),
			TotalHours: row.TotalHours,
		}
		if row.Position != nil {
			entry.Position = *row.Position
		}
		if row.ClockOut != nil {
			entry.ClockOut = row.ClockOut.Format("2006-01-02 15:04")
		}
		if row.Notes != nil {
			entry.Notes = *row.Notes
		}
		entries = append(entries, entry)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="attendance_register.xlsx"`)
	c.Status(http.StatusOK)

	if err := service.WriteRegisterSheet(entries, c.Writer); err != nil {
		return c.RespondError(err)
	}
	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.attendance.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func registerFilter(c *web.Context) (attendance.Filter, error) {
	var filter attendance.Filter

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
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if err := c.ValidQuery(); err != nil {
		return attendance.Filter{}, err
	}

	return filter, nil
}
