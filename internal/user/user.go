package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned when the username or email is taken.
	ErrAlreadyExists = errors.New("user already exists")
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex:users_username_key"`
	Email        string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:users_email_key"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
