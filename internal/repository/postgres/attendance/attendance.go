package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/pkg/repository/postgresql"
)

var (
	// ErrAlreadyClockedIn: a clock-in while a session is still open is
	// rejected rather than stacking or auto-closing.
	ErrAlreadyClockedIn = errors.New("already clocked in, clock out first")

	ErrNoOpenSession = errors.New("no open attendance session to clock out of")
)

const pgUniqueViolation = "23505"

type Repository struct {
	*postgresql.Database
	loc *time.Location
}

// NewRepository builds the attendance store. All event timestamps use loc
// (South Africa Standard Time in production) regardless of server locale.
func NewRepository(database *postgresql.Database, loc *time.Location) *Repository {
	return &Repository{Database: database, loc: loc}
}

func (r Repository) now() time.Time {
	return time.Now().In(r.loc)
}

// FormatNotes combines the attendance type tag and free-text notes into
// the stored "(<type>) <notes>" form, dropping empty parts.
func FormatNotes(attendanceType, notes string) string {
	attendanceType = strings.TrimSpace(attendanceType)
	notes = strings.TrimSpace(notes)

	switch {
	case attendanceType != "" && notes != "":
		return "(" + attendanceType + ") " + notes
	case attendanceType != "":
		return "(" + attendanceType + ")"
	default:
		return notes
	}
}

func totalHours(clockIn, clockOut time.Time) string {
	diff := clockOut.Sub(clockIn)
	if diff < 0 {
		diff = 0
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// ClockIn opens a new attendance session for the caller. The open-session
// check is backed by a partial unique index, so a racing duplicate fails
// on insert instead of slipping through.
func (r Repository) ClockIn(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	open := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT id FROM attendance WHERE employee_id = %d AND clock_out IS NULL AND deleted_at IS NULL)`, claims.UserID),
	).Scan(&open); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "checking open session"), http.StatusInternalServerError)
	}
	if open {
		return CreateResponse{}, web.NewRequestError(ErrAlreadyClockedIn, http.StatusBadRequest)
	}

	var attendanceType, notes string
	if request.AttendanceType != nil {
		attendanceType = *request.AttendanceType
	}
	if request.Notes != nil {
		notes = *request.Notes
	}

	var response CreateResponse
	response.EmployeeID = claims.UserID
	response.ClockIn = r.now()
	if formatted := FormatNotes(attendanceType, notes); formatted != "" {
		response.Notes = &formatted
	}
	response.CreatedAt = response.ClockIn
	response.CreatedBy = claims.UserID

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation {
			return CreateResponse{}, web.NewRequestError(ErrAlreadyClockedIn, http.StatusBadRequest)
		}
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating attendance"), http.StatusInternalServerError)
	}

	return response, nil
}

// ClockOut closes the caller's most recent open session. Closed sessions
// are terminal; without an open one nothing is mutated.
func (r Repository) ClockOut(ctx context.Context) (ExitResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return ExitResponse{}, err
	}

	var (
		id      int
		clockIn time.Time
	)
	err = r.QueryRowContext(ctx,
		fmt.Sprintf(`
			SELECT id, clock_in
			FROM attendance
			WHERE employee_id = %d AND clock_out IS NULL AND deleted_at IS NULL
			ORDER BY clock_in DESC
			LIMIT 1`, claims.UserID),
	).Scan(&id, &clockIn)
	if errors.Is(err, sql.ErrNoRows) {
		return ExitResponse{}, web.NewRequestError(ErrNoOpenSession, http.StatusBadRequest)
	}
	if err != nil {
		return ExitResponse{}, web.NewRequestError(errors.Wrap(err, "selecting open session"), http.StatusInternalServerError)
	}

	now := r.now()

	q := r.NewUpdate().Table("attendance").Where("deleted_at IS NULL AND id = ? AND clock_out IS NULL", id)
	q.Set("clock_out = ?", now)
	q.Set("updated_at = ?", now)
	q.Set("updated_by = ?", claims.UserID)

	if _, err := q.Exec(ctx); err != nil {
		return ExitResponse{}, web.NewRequestError(errors.Wrap(err, "closing attendance session"), http.StatusInternalServerError)
	}

	return ExitResponse{
		ID:         id,
		EmployeeID: claims.UserID,
		ClockIn:    clockIn.In(r.loc),
		ClockOut:   now,
		TotalHours: totalHours(clockIn, now),
	}, nil
}

// Today returns the caller's most recent session for the current date, or
// nil when there is none.
func (r Repository) Today(ctx context.Context) (*DayResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	today := r.now().Format("2006-01-02")

	query := fmt.Sprintf(`
		SELECT id, clock_in, clock_out, notes
		FROM attendance
		WHERE employee_id = %d
		  AND deleted_at IS NULL
		  AND (clock_in AT TIME ZONE '%s')::date = '%s'
		ORDER BY clock_in DESC
		LIMIT 1`, claims.UserID, r.loc.String(), today)

	var detail DayResponse
	err = r.QueryRowContext(ctx, query).Scan(&detail.ID, &detail.ClockIn, &detail.ClockOut, &detail.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting today's attendance"), http.StatusInternalServerError)
	}

	detail.ClockIn = detail.ClockIn.In(r.loc)
	if detail.ClockOut != nil {
		out := detail.ClockOut.In(r.loc)
		detail.ClockOut = &out
		detail.TotalHours = totalHours(detail.ClockIn, out)
	}

	return &detail, nil
}

// monthWindow returns the register month key for t: the history view
// covers exactly one calendar month, delimited in loc rather than UTC.
func monthWindow(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01")
}

func monthQuery(employeeID int, loc *time.Location, month string) string {
	return fmt.Sprintf(`
		SELECT id, clock_in, clock_out, notes
		FROM attendance
		WHERE employee_id = %d
		  AND deleted_at IS NULL
		  AND to_char(clock_in AT TIME ZONE '%s', 'YYYY-MM') = '%s'
		ORDER BY clock_in DESC`, employeeID, loc.String(), month)
}

// Month returns the caller's sessions for the current calendar month,
// most recent first.
func (r Repository) Month(ctx context.Context) ([]DayResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	query := monthQuery(claims.UserID, r.loc, monthWindow(time.Now(), r.loc))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting month attendance"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []DayResponse
	for rows.Next() {
		var detail DayResponse
		if err = rows.Scan(&detail.ID, &detail.ClockIn, &detail.ClockOut, &detail.Notes); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning month attendance"), http.StatusInternalServerError)
		}

		detail.ClockIn = detail.ClockIn.In(r.loc)
		if detail.ClockOut != nil {
			out := detail.ClockOut.In(r.loc)
			detail.ClockOut = &out
			detail.TotalHours = totalHours(detail.ClockIn, out)
		}

		list = append(list, detail)
	}

	return list, nil
}

// GetRegister lists attendance sessions joined with their owners, newest
// first, with optional date and search filters.
func (r Repository) GetRegister(ctx context.Context, filter Filter) ([]RegisterRow, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				a.deleted_at IS NULL AND u.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND (
		u.names ilike '%s' OR u.surname ilike '%s' OR u.email ilike '%s')`,
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if filter.Date != nil {
		parsed, err := date.ParseDate(*filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND (a.clock_in AT TIME ZONE '%s')::date = '%s'",
			r.loc.String(), parsed.Format("2006-01-02"))
	}

	orderQuery := "ORDER BY a.clock_in desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.employee_id,
			u.names || ' ' || u.surname,
			u.role,
			u.position,
			a.clock_in,
			a.clock_out,
			a.notes
		FROM attendance a
		JOIN users u ON u.id = a.employee_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting register"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []RegisterRow

	for rows.Next() {
		var detail RegisterRow
		if err = rows.Scan(
			&detail.ID,
			&detail.EmployeeID,
			&detail.FullName,
			&detail.Role,
			&detail.Position,
			&detail.ClockIn,
			&detail.ClockOut,
			&detail.Notes); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning register row"), http.StatusInternalServerError)
		}

		detail.ClockIn = detail.ClockIn.In(r.loc)
		if detail.ClockOut != nil {
			out := detail.ClockOut.In(r.loc)
			detail.ClockOut = &out
			detail.TotalHours = totalHours(detail.ClockIn, out)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance a
		JOIN users u ON u.id = a.employee_id
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning register count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "attendance", id)
}
