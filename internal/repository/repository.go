package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// forUpdate 行锁：SELECT ... FOR UPDATE
var forUpdate = clause.Locking{Strength: "UPDATE"}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Page 分页参数
type Page struct {
	Limit  int
	Offset int
}
