package domain

import "errors"

var (
	ErrPollNotFound         = errors.New("poll not found")
	ErrInvalidPollID        = errors.New("invalid poll id")
	ErrInvalidOption        = errors.New("invalid option for this poll")
	ErrPollNotActive        = errors.New("poll is not accepting votes")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("not authorized to modify this poll")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInternal             = errors.New("internal server error")
)
