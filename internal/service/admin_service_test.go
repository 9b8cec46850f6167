package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

func seedCounty(t *testing.T, env *testEnv, code, name string) {
	t.Helper()
	if err := env.counties.Create(context.Background(), &model.County{Code: code, Name: name}); err != nil {
		t.Fatalf("写入区县失败: %v", err)
	}
}

func TestCreateAdmin_CountyRole(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())
	seedCounty(t, env, "C01", "东城区")

	resp, err := svc.Create(context.Background(), &dto.CreateAdminRequest{
		Username:   "dongcheng",
		Password:   "secret123",
		Role:       model.RoleCounty,
		CountyCode: "C01",
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.CountyCode == nil || *resp.CountyCode != "C01" {
		t.Errorf("county_code = %v, 期望 C01", resp.CountyCode)
	}
	if resp.CountyName != "东城区" {
		t.Errorf("county_name = %q, 期望 东城区", resp.CountyName)
	}
	if resp.Status != model.StatusEnabled {
		t.Errorf("status = %q, 期望 enabled", resp.Status)
	}
}

func TestCreateAdmin_CountyRoleRequiresExistingCounty(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateAdminRequest{
		Username:   "nowhere",
		Password:   "secret123",
		Role:       model.RoleCounty,
		CountyCode: "C99",
	})
	if !errors.Is(err, ErrCountyNotFound) {
		t.Fatalf("err = %v, 期望 ErrCountyNotFound", err)
	}
}

func TestCreateAdmin_UsernameTaken(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())

	req := &dto.CreateAdminRequest{Username: "cityadmin", Password: "secret123", Role: model.RoleCity}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, 期望 ErrUsernameTaken", err)
	}
}

func TestDeleteAdmin_CannotDeleteSelf(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())

	resp, err := svc.Create(context.Background(), &dto.CreateAdminRequest{Username: "cityadmin", Password: "secret123", Role: model.RoleCity})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := svc.Delete(context.Background(), resp.ID, resp.ID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Fatalf("err = %v, 期望 ErrCannotDeleteSelf", err)
	}
}

// 软删除后用户名可重新使用
func TestDeleteAdmin_ReleasesUsername(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())

	first, err := svc.Create(context.Background(), &dto.CreateAdminRequest{Username: "cityadmin", Password: "secret123", Role: model.RoleCity})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if err := svc.Delete(context.Background(), first.ID, first.ID+1000); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := svc.Get(context.Background(), first.ID); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("已删除账号仍可查询, err = %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateAdminRequest{Username: "cityadmin", Password: "secret123", Role: model.RoleCity}); err != nil {
		t.Fatalf("删除后重建同名账号失败: %v", err)
	}
}

func TestUpdateAdmin_DisableAccount(t *testing.T) {
	env := newTestEnv()
	svc := NewAdminService(env.repo, zap.NewNop())

	created, err := svc.Create(context.Background(), &dto.CreateAdminRequest{Username: "cityadmin", Password: "secret123", Role: model.RoleCity})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	disabled := model.StatusDisabled
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateAdminRequest{Status: &disabled})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Status != model.StatusDisabled {
		t.Errorf("status = %q, 期望 disabled", updated.Status)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	env := newTestEnv()

	if err := EnsureDefaultAdmin(context.Background(), env.repo, zap.NewNop()); err != nil {
		t.Fatalf("初始化默认管理员失败: %v", err)
	}

	admin, err := env.admins.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("默认管理员未创建: %v", err)
	}
	if admin.Role != model.RoleCity {
		t.Errorf("role = %q, 期望 city", admin.Role)
	}

	// 已有账号时重复调用不再插入
	if err := EnsureDefaultAdmin(context.Background(), env.repo, zap.NewNop()); err != nil {
		t.Fatalf("重复初始化失败: %v", err)
	}
	count, _ := env.admins.Count(context.Background())
	if count != 1 {
		t.Errorf("管理员数量 = %d, 期望 1", count)
	}
}
