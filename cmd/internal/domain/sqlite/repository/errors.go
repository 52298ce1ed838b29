package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by mutations whose target row vanished, usually
	// because a concurrent request deleted it first.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write hits a unique index.
	ErrDuplicate = errors.New("duplicate record")

	// ErrRestricted is returned when a delete would orphan rows that do not cascade.
	ErrRestricted = errors.New("record is still referenced")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	// Older driver builds do not translate constraint errors.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
