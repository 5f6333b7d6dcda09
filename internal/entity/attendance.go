package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance is one clock-in/clock-out pair. A row with a nil ClockOut is
// an open session; at most one may exist per employee.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	BasicEntity
	EmployeeID *int       `json:"employee_id" bun:"employee_id"`
	ClockIn    *time.Time `json:"clock_in"    bun:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"   bun:"clock_out"`
	Notes      *string    `json:"notes"       bun:"notes"`
}
