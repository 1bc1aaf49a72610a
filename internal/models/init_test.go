package models

import (
	"testing"

	"github.com/techstore-next/internal/constants"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

func TestEnsureDefaultAdminCreatesOnce(t *testing.T) {
	db, err := Open("sqlite", "file:models_default_admin?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	if err := EnsureDefaultAdmin(db, " Owner@Example.com ", "s3cret-pass"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if err := EnsureDefaultAdmin(db, "second@example.com", "other-pass"); err != nil {
		t.Fatalf("ensure admin second call failed: %v", err)
	}

	var admins []User
	if err := db.Where("role = ?", constants.UserRoleAdmin).Find(&admins).Error; err != nil {
		t.Fatalf("query admins failed: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("want exactly one admin, got %d", len(admins))
	}
	if admins[0].Email != "owner@example.com" {
		t.Fatalf("email should be normalized, got %s", admins[0].Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}
}
