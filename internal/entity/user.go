package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Names    *string `json:"names"    bun:"names"`
	Surname  *string `json:"surname"  bun:"surname"`
	Phone    *string `json:"phone_number" bun:"phone"`
	Email    *string `json:"email"    bun:"email"`
	Password *string `json:"-"        bun:"password"`
	Role     *string `json:"role"     bun:"role"`
	Position *string `json:"position" bun:"position"`
}
