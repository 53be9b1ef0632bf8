package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrSkillNotFound = errors.New("skill not found")
	ErrDuplicateID   = errors.New("duplicate id")
)
