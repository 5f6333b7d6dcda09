package dashboard

import (
	"net/http"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
)

type Controller struct {
	user       User
	attendance Attendance
}

func NewController(user User, attendance Attendance) *Controller {
	return &Controller{user: user, attendance: attendance}
}

// Admin serves the admin dashboard: staff counters plus who the viewer
// is.
func (uc Controller) Admin(c *web.Context) error {
	claims, err := auth.GetClaims(c.Ctx)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	stats, err := uc.user.GetStatistics(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"employee_count": stats.EmployeeCount,
			"present_today":  stats.PresentToday,
			"absent_today":   absentToday(stats.EmployeeCount, stats.PresentToday),
			"current_user": map[string]interface{}{
				"id":        claims.UserID,
				"full_name": claims.FullName,
				"email":     claims.Email,
			},
		},
		"status": true,
	}, http.StatusOK)
}

// absentToday clamps at zero: the two counters are independent reads and
// can briefly disagree, which must never show up as a negative figure.
func absentToday(employeeCount, presentToday int) int {
	if absent := employeeCount - presentToday; absent > 0 {
		return absent
	}
	return 0
}

// Employee serves the employee dashboard: today's session and the
// current month's history for the viewer.
func (uc Controller) Employee(c *web.Context) error {
	claims, err := auth.GetClaims(c.Ctx)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	today, err := uc.attendance.Today(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	month, err := uc.attendance.Month(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"current_user": map[string]interface{}{
				"id":        claims.UserID,
				"full_name": claims.FullName,
				"email":     claims.Email,
				"role":      claims.Role,
			},
			"today": today,
			"month": month,
		},
		"status": true,
	}, http.StatusOK)
}
