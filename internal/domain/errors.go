package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrIncorrectPIN    = errors.New("incorrect pin")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoSources       = errors.New("no video sources found")
)
