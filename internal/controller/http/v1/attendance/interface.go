package attendance

import (
	"context"

	"maxelo/attendance/internal/repository/postgres/attendance"
)

type Attendance interface {
	ClockIn(ctx context.Context, request attendance.CreateRequest) (attendance.CreateResponse, error)
	ClockOut(ctx context.Context) (attendance.ExitResponse, error)
	GetRegister(ctx context.Context, filter attendance.Filter) ([]attendance.RegisterRow, int, error)
	Delete(ctx context.Context, id int) error
}
