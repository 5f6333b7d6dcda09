package dashboard

import (
	"context"

	"maxelo/attendance/internal/repository/postgres/attendance"
	"maxelo/attendance/internal/repository/postgres/user"
)

type User interface {
	GetStatistics(ctx context.Context) (user.StatisticResponse, error)
}

type Attendance interface {
	Today(ctx context.Context) (*attendance.DayResponse, error)
	Month(ctx context.Context) ([]attendance.DayResponse, error)
}
