package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserEmailExists  = errors.New("user already exists")
	ErrUserNumberExists = errors.New("user number already taken")
	ErrUserNotFound     = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	UserNumber string `gorm:"unique;not null"`
	Email      string `gorm:"unique;not null"`
	Password   string `gorm:"not null"`
	Role       string `gorm:"not null;default:user"` // "user" or "admin"

	Balance      float64 `gorm:"not null;default:0"`
	RafflePoints int     `gorm:"not null;default:0"`
	Status       string  `gorm:"not null;default:active;index"` // "active" or "suspended"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if dup, constraint := uniqueViolation(result.Error); dup {
			if constraintOn(constraint, "user_number") {
				return User{}, ErrUserNumberExists
			}

			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context, status string) ([]User, error) {
	var users []User

	query := d.db.WithContext(ctx).Order("id")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if result := query.Find(&users); result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) UpdateStatus(ctx context.Context, id uint, status string) (User, error) {
	result := d.db.WithContext(ctx).Model(&User{ID: id}).Update("status", status)
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *UserDAO) Count(ctx context.Context) (int64, error) {
	var n int64

	if result := d.db.WithContext(ctx).Model(&User{}).Count(&n); result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}
