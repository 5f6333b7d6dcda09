package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type SignInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	UserType string `json:"user_type" form:"user_type"`
}

type VerifyResetRequest struct {
	UserID *int    `json:"user_id" form:"user_id"`
	Email  *string `json:"email" form:"email"`
}

type NewPasswordRequest struct {
	NewPassword *string `json:"new_password" form:"new_password"`
	UserID      *int    `json:"user_id" form:"user_id"`
	ResetToken  *string `json:"reset_token" form:"reset_token"`
}

type GetListResponse struct {
	ID       int     `json:"id"`
	Names    *string `json:"names"`
	Surname  *string `json:"surname"`
	Phone    *string `json:"phone_number"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Position *string `json:"position"`
}

type GetDetailByIdResponse struct {
	ID       int     `json:"id"`
	Names    *string `json:"names"`
	Surname  *string `json:"surname"`
	Phone    *string `json:"phone_number"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Position *string `json:"position"`
}

type CreateRequest struct {
	Names    *string `json:"names" form:"names"`
	Surname  *string `json:"surname" form:"surname"`
	Phone    *string `json:"phone_number" form:"phone_number"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	Position *string `json:"position" form:"position"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID        int       `json:"id" bun:"id,pk,autoincrement"`
	Names     *string   `json:"names" bun:"names"`
	Surname   *string   `json:"surname" bun:"surname"`
	Phone     *string   `json:"phone_number" bun:"phone"`
	Email     *string   `json:"email" bun:"email"`
	Password  *string   `json:"-" bun:"password"`
	Role      *string   `json:"role" bun:"role"`
	Position  *string   `json:"position" bun:"position"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

// UpdateRequest deliberately has no password field: passwords only change
// through the reset flow.
type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	Names    *string `json:"names" form:"names"`
	Surname  *string `json:"surname" form:"surname"`
	Phone    *string `json:"phone_number" form:"phone_number"`
	Email    *string `json:"email" form:"email"`
	Role     *string `json:"role" form:"role"`
	Position *string `json:"position" form:"position"`
}

type StatisticResponse struct {
	EmployeeCount int `json:"employee_count"`
	PresentToday  int `json:"present_today"`
}

type ExportRow struct {
	ID       int
	Names    string
	Surname  string
	Phone    string
	Email    string
	Role     string
	Position string
}
