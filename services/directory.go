package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wanjiru256/mentor_connect/models"
	"gorm.io/gorm"
)

// UserDirectory is the read-only user lookup backing notification addressing.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}
