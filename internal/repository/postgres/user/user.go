package user

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
	"maxelo/attendance/internal/entity"
	"maxelo/attendance/internal/pkg/repository/postgresql"
	"maxelo/attendance/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
	loc *time.Location
}

func NewRepository(database *postgresql.Database, loc *time.Location) *Repository {
	return &Repository{Database: database, loc: loc}
}

// GetByEmail looks up a live user by login email. Used by sign-in, which
// runs before any session exists, so no claims are checked.
func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("email = ? AND deleted_at IS NULL", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, &web.Error{
			Err:    errors.New("invalid email or password"),
			Status: http.StatusUnauthorized,
		}
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting user by email"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				u.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND (
		u.names ilike '%s' OR u.surname ilike '%s' OR u.email ilike '%s')`,
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY u.id asc"

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
			u.id,
			u.names,
			u.surname,
			u.phone,
			u.email,
			u.role,
			u.position
		FROM users u
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Names,
			&detail.Surname,
			&detail.Phone,
			&detail.Email,
			&detail.Role,
			&detail.Position); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusInternalServerError)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(u.id)
		FROM users u
			%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.names,
			u.surname,
			u.phone,
			u.email,
			u.role,
			u.position
		FROM users u
		WHERE u.deleted_at IS NULL AND u.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Names,
		&detail.Surname,
		&detail.Phone,
		&detail.Email,
		&detail.Role,
		&detail.Position,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user detail"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Names", "Surname", "Email", "Password", "Role"); err != nil {
		return CreateResponse{}, err
	}

	role, err := auth.NormalizeRole(*request.Role)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	if err := r.checkEmailFree(ctx, *request.Email, 0); err != nil {
		return CreateResponse{}, err
	}
	if request.Phone != nil && strings.TrimSpace(*request.Phone) != "" {
		if err := r.checkPhoneFree(ctx, *request.Phone, 0); err != nil {
			return CreateResponse{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashed := string(hash)

	var response CreateResponse
	response.Names = request.Names
	response.Surname = request.Surname
	response.Phone = request.Phone
	response.Email = request.Email
	response.Password = &hashed
	response.Role = &role
	response.Position = request.Position
	response.CreatedAt = time.Now().In(r.loc)
	response.CreatedBy = claims.UserID

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusInternalServerError)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	exists := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT id FROM users WHERE id = %d AND deleted_at IS NULL)`, request.ID),
	).Scan(&exists); err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking user"), http.StatusInternalServerError)
	}
	if !exists {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Names != nil {
		q.Set("names = ?", *request.Names)
	}
	if request.Surname != nil {
		q.Set("surname = ?", *request.Surname)
	}
	if request.Phone != nil {
		if err := r.checkPhoneFree(ctx, *request.Phone, request.ID); err != nil {
			return err
		}
		q.Set("phone = ?", *request.Phone)
	}
	if request.Email != nil {
		if err := r.checkEmailFree(ctx, *request.Email, request.ID); err != nil {
			return err
		}
		q.Set("email = ?", *request.Email)
	}
	if request.Role != nil {
		role, err := auth.NormalizeRole(*request.Role)
		if err != nil {
			return web.NewRequestError(err, http.StatusBadRequest)
		}
		q.Set("role = ?", role)
	}
	if request.Position != nil {
		q.Set("position = ?", *request.Position)
	}
	q.Set("updated_at = ?", time.Now().In(r.loc))
	q.Set("updated_by = ?", claims.UserID)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusInternalServerError)
	}

	return nil
}

// Delete soft deletes the user and that user's attendance rows in one
// transaction: the cascade either fully applies or not at all.
func (r Repository) Delete(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	now := time.Now().In(r.loc)

	err = r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Table("users").
			Where("deleted_at IS NULL AND id = ?", id).
			Set("deleted_at = ?", now).
			Set("deleted_by = ?", claims.UserID).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "deleting user")
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "checking delete result")
		}
		if rows == 0 {
			return postgres.ErrNotFound
		}

		if _, err := tx.NewUpdate().
			Table("attendance").
			Where("deleted_at IS NULL AND employee_id = ?", id).
			Set("deleted_at = ?", now).
			Set("deleted_by = ?", claims.UserID).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "deleting user attendance")
		}

		return nil
	})
	if errors.Is(err, postgres.ErrNotFound) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return nil
}

// GetStatistics reads the admin dashboard counters. All roles count as
// staff. The counts come from two independent reads, so the caller is
// responsible for clamping the derived absent figure.
func (r Repository) GetStatistics(ctx context.Context) (StatisticResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return StatisticResponse{}, err
	}

	today := time.Now().In(r.loc).Format("2006-01-02")

	query := fmt.Sprintf(`
	SELECT
		(SELECT COUNT(u.id) FROM users u WHERE u.deleted_at IS NULL) AS employee_count,
		(SELECT COUNT(DISTINCT a.employee_id)
		   FROM attendance a
		   JOIN users u ON u.id = a.employee_id AND u.deleted_at IS NULL
		  WHERE a.deleted_at IS NULL
		    AND (a.clock_in AT TIME ZONE '%s')::date = '%s') AS present_today
	`, r.loc.String(), today)

	var response StatisticResponse
	if err := r.QueryRowContext(ctx, query).Scan(
		&response.EmployeeCount,
		&response.PresentToday,
	); err != nil {
		return StatisticResponse{}, web.NewRequestError(errors.Wrap(err, "fetching statistics"), http.StatusInternalServerError)
	}

	return response, nil
}

// VerifyReset checks that the submitted (user id, email) pair matches a
// live user. Runs before any session exists.
func (r Repository) VerifyReset(ctx context.Context, userID int, email string) error {
	email = strings.Replace(email, "'", "''", -1)

	exists := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT id FROM users WHERE id = %d AND email = '%s' AND deleted_at IS NULL)`, userID, email),
	).Scan(&exists); err != nil {
		return web.NewRequestError(errors.Wrap(err, "verifying reset details"), http.StatusInternalServerError)
	}
	if !exists {
		return web.NewRequestError(errors.New("no account matches the supplied details"), http.StatusBadRequest)
	}

	return nil
}

// UpdatePassword overwrites the stored password hash. Authorization comes
// from the reset flag, not from session claims.
func (r Repository) UpdatePassword(ctx context.Context, userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}

	result, err := r.NewUpdate().
		Table("users").
		Where("deleted_at IS NULL AND id = ?", userID).
		Set("password = ?", string(hash)).
		Set("updated_at = ?", time.Now().In(r.loc)).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating password"), http.StatusInternalServerError)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking password update"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

// GetExportList returns every live user for the spreadsheet export and
// the badge sheet.
func (r Repository) GetExportList(ctx context.Context) ([]ExportRow, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			u.id,
			u.names,
			u.surname,
			COALESCE(u.phone, ''),
			u.email,
			u.role,
			COALESCE(u.position, '')
		FROM users u
		WHERE u.deleted_at IS NULL
		ORDER BY u.id asc
	`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting users for export"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []ExportRow
	for rows.Next() {
		var row ExportRow
		if err = rows.Scan(&row.ID, &row.Names, &row.Surname, &row.Phone, &row.Email, &row.Role, &row.Position); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning export row"), http.StatusInternalServerError)
		}
		list = append(list, row)
	}

	return list, nil
}

func (r Repository) checkEmailFree(ctx context.Context, email string, selfID int) error {
	email = strings.Replace(email, "'", "''", -1)

	used := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT id FROM users WHERE email = '%s' AND id != %d AND deleted_at IS NULL)`, email, selfID),
	).Scan(&used); err != nil {
		return web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
	}
	if used {
		return web.NewRequestError(errors.New("email is already in use"), http.StatusBadRequest)
	}
	return nil
}

func (r Repository) checkPhoneFree(ctx context.Context, phone string, selfID int) error {
	phone = strings.Replace(phone, "'", "''", -1)

	used := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT id FROM users WHERE phone = '%s' AND id != %d AND deleted_at IS NULL)`, phone, selfID),
	).Scan(&used); err != nil {
		return web.NewRequestError(errors.Wrap(err, "phone check"), http.StatusInternalServerError)
	}
	if used {
		return web.NewRequestError(errors.New("phone number is already in use"), http.StatusBadRequest)
	}
	return nil
}
