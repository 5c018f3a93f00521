package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) Create(ctx context.Context, u *User) error {
	u.ID = 0
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *GormRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

func (r *GormRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return n > 0, nil
}
