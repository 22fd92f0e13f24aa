package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outfitapi/models"

	"gorm.io/gorm"
)

type UserStore interface {
	FindUser(ctx context.Context, id uint) (*models.UserAccount, error)
	FindUserByTelegram(ctx context.Context, username string) (*models.UserAccount, error)
	UsersWithDailyPrompt(ctx context.Context) ([]models.UserAccount, error)
}

type GormUsers struct {
	db *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (u *GormUsers) FindUser(ctx context.Context, id uint) (*models.UserAccount, error) {
	return u.first(ctx, "id = ? AND banned = false", id)
}

func (u *GormUsers) FindUserByTelegram(ctx context.Context, username string) (*models.UserAccount, error) {
	return u.first(ctx, "LOWER(telegram_username) = ? AND banned = false", strings.ToLower(strings.TrimPrefix(username, "@")))
}

// UsersWithDailyPrompt lists everyone who asked for a morning suggestion.
func (u *GormUsers) UsersWithDailyPrompt(ctx context.Context) ([]models.UserAccount, error) {
	var users []models.UserAccount
	err := u.db.WithContext(ctx).
		Where("daily_prompt IS NOT NULL AND daily_prompt <> '' AND banned = false").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list daily users: %w", err)
	}
	return users, nil
}

func (u *GormUsers) first(ctx context.Context, where string, args ...interface{}) (*models.UserAccount, error) {
	var user models.UserAccount
	err := u.db.WithContext(ctx).Where(where, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
