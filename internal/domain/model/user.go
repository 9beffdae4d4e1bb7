package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// 保存値との変換はここで全部やる。知らない値は拒否。
func ParseRole(v string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "STUDENT":
		return RoleStudent, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", v)
	}
}

func ParseUserStatus(v string) (UserStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "ACTIVE":
		return UserStatusActive, nil
	case "INACTIVE":
		return UserStatusInactive, nil
	default:
		return "", fmt.Errorf("unknown user status: %q", v)
	}
}

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"user_id"`
	FullName     string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address      string     `gorm:"type:varchar(255)" json:"address,omitempty"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
