package domain

import "errors"

var (
	// ErrNotFound is returned when a tag or keyword does not exist
	ErrNotFound = errors.New("not found")

	ErrInvalidCooldown = errors.New("cooldown must be between 1 and 60 minutes")
	ErrInvalidHandle   = errors.New("name must start with @")
	ErrEmptyPrefix     = errors.New("prefix cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
)
