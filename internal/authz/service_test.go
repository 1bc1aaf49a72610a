package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("merch", "/admin/coupons/:id", "PUT"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"merch"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/coupons/42", "put")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/coupons/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("merch", "/admin/coupons", "GET"); err != nil {
		t.Fatalf("grant merch policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("auditor", "/admin/reports", "GET"); err != nil {
		t.Fatalf("grant auditor policy failed: %v", err)
	}

	if err := svc.SetUserRoles(2, []string{"merch"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"auditor"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:auditor" {
		t.Fatalf("roles want [role:auditor], got=%v", roles)
	}

	allow, err := svc.EnforceUser(2, "/admin/coupons", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/coupons/:id", want: "/admin/coupons/:id"},
		{in: "/admin/coupons/:id", want: "/admin/coupons/:id"},
		{in: "admin/coupons", want: "/admin/coupons"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRolesAndAuthorize(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:readonly_auditor": true,
		"role:coupon_manager":   true,
		"role:admin":            true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	cases := []struct {
		userID uint
		role   string
		obj    string
		act    string
		want   bool
	}{
		{10, "admin", "/api/v1/admin/coupons", "POST", true},
		{11, "customer", "/api/v1/admin/coupons", "GET", false},
		{12, "", "/api/v1/admin/coupons/3", "PUT", false},
	}
	for _, tc := range cases {
		allow, err := svc.Authorize(tc.userID, tc.role, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("authorize failed: %v", err)
		}
		if allow != tc.want {
			t.Fatalf("authorize(%d,%q,%s %s): want %v got %v", tc.userID, tc.role, tc.act, tc.obj, tc.want, allow)
		}
	}

	if err := svc.SetUserRoles(12, []string{"coupon_manager"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}
	allow, err := svc.Authorize(12, "customer", "/api/v1/admin/coupons/3", "PUT")
	if err != nil {
		t.Fatalf("authorize bound role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected bound coupon_manager role to allow write")
	}
}
