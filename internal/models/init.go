package models

import (
	"strings"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@techstore.local"
	defaultAdminPassword = "admin123"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(email, password string) error {
	return EnsureDefaultAdmin(DB, email, password)
}

// EnsureDefaultAdmin 不存在管理员角色用户时创建一个；已存在时不改动
func EnsureDefaultAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&User{}).Where("role = ?", constants.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Store",
		LastName:     "Admin",
		Role:         constants.UserRoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
