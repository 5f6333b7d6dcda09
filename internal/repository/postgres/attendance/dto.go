package attendance

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
	Date   *string
}

type CreateRequest struct {
	AttendanceType *string `json:"attendanceType" form:"attendanceType"`
	Notes          *string `json:"notes" form:"notes"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:attendance"`

	ID         int       `json:"id" bun:"id,pk,autoincrement"`
	EmployeeID int       `json:"employee_id" bun:"employee_id"`
	ClockIn    time.Time `json:"clock_in" bun:"clock_in"`
	Notes      *string   `json:"notes" bun:"notes"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
	CreatedBy  int       `json:"-" bun:"created_by"`
}

type ExitResponse struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employee_id"`
	ClockIn    time.Time `json:"clock_in"`
	ClockOut   time.Time `json:"clock_out"`
	TotalHours string    `json:"total_hours"`
}

type DayResponse struct {
	ID         int        `json:"id"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Notes      *string    `json:"notes"`
	TotalHours string     `json:"total_hours,omitempty"`
}

type RegisterRow struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employee_id"`
	FullName   string     `json:"full_name"`
	Role       string     `json:"role"`
	Position   *string    `json:"position"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Notes      *string    `json:"notes"`
	TotalHours string     `json:"total_hours,omitempty"`
}
