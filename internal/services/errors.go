package services

import "errors"

var (
	// ErrNotFound signals an unknown record id on read, update or delete.
	ErrNotFound = errors.New("record not found")
	// ErrConflict signals a duplicate (match_id, reviewer_profile_id) pair.
	ErrConflict = errors.New("feedback already exists for this match and reviewer")
)
