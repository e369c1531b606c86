package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// SortOrder - порядок выдачи по created_at
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// clause для ORDER BY; id добавлен для стабильного порядка при равных created_at
func (o SortOrder) clause() string {
	if o == OldestFirst {
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
