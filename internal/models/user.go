package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	UserID        string          `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	OIDCID        string          `gorm:"uniqueIndex" json:"-"`
	Name          string          `gorm:"not null" json:"name"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string          `json:"phone"`
	Role          Role            `gorm:"not null;default:user" json:"role"`
	EmailVerified bool            `gorm:"column:email_verified" json:"email_verified"`
	Address       ShippingAddress `gorm:"embedded" json:"address"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
