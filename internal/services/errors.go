package services

import "errors"

var (
	ErrEditLocked       = errors.New("editing disabled")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrDocumentNotFound = errors.New("document not found")
	ErrStorageWrite     = errors.New("storage write failed")
)
