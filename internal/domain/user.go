package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin      Role = "管理员"
	RoleDispatcher Role = "调度员"
	RoleViewer     Role = "观察员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
