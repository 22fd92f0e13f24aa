package services

import "errors"

var (
	ErrItemsNotFound = errors.New("items not found")
	ErrUserNotFound  = errors.New("user not found")
)

func StrPointer(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}
