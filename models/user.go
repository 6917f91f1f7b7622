package models

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/google/uuid"
)

type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Username   string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	FullName   string    `gorm:"size:100" json:"full_name"`
	Role       string    `gorm:"size:20;default:'staff'" json:"role"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterUser creates the first user of a business with a fresh business id,
// or a staff user inside the caller's business when one is in context.
func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {

	businessId, _ := utils.GetBusinessIdFromContext(ctx)
	if businessId == "" {
		businessId = uuid.NewString()
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).
		Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("username is already taken")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = "staff"
	}
	user := User{
		BusinessId: businessId,
		Username:   input.Username,
		Password:   string(hashed),
		FullName:   input.FullName,
		Role:       role,
		IsActive:   utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsDuplicateEntry(err) {
			return nil, errors.New("username is already taken")
		}
		return nil, err
	}
	return &user, nil
}

func Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).
		Where("username = ? AND is_active = ?", input.Username, true).
		First(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.BusinessId, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: &user}, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[User](ctx, businessId, id)
}
