package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
)

var (
	ErrAdminNotFound    = errors.New("管理员不存在")
	ErrUsernameTaken    = errors.New("用户名已存在")
	ErrCannotDeleteSelf = errors.New("不能删除当前登录账号")
)

// AdminService 管理员账号管理接口（仅市级角色可操作）
type AdminService interface {
	Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error)
	Get(ctx context.Context, id int64) (*dto.AdminResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	Delete(ctx context.Context, id, operatorID int64) error
	List(ctx context.Context, req *dto.AdminQueryRequest) ([]dto.AdminResponse, int64, error)
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	// 县级账号必须归属一个已存在的区县
	var countyCode *string
	countyName := ""
	if req.Role == model.RoleCounty {
		county, err := s.repo.County.GetByCode(ctx, req.CountyCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCountyNotFound
			}
			s.logger.Error("查询区县失败", zap.Error(err))
			return nil, err
		}
		countyCode = &county.Code
		countyName = county.Name
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	admin := &model.Admin{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		CountyCode:   countyCode,
		Status:       model.StatusEnabled,
	}

	// 用户名唯一性由库侧部分唯一索引保证，冲突归一为业务错误
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	resp := toAdminResponse(admin, countyName)
	return &resp, nil
}

func (s *adminService) Get(ctx context.Context, id int64) (*dto.AdminResponse, error) {
	admin, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	resp := toAdminResponse(admin, s.countyName(ctx, admin.CountyCode))
	return &resp, nil
}

func (s *adminService) Update(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	admin, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	if req.Status != nil {
		admin.Status = *req.Status
	}
	if req.CountyCode != nil && admin.Role == model.RoleCounty {
		if _, err := s.repo.County.GetByCode(ctx, *req.CountyCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCountyNotFound
			}
			s.logger.Error("查询区县失败", zap.Error(err))
			return nil, err
		}
		admin.CountyCode = req.CountyCode
	}

	if err := s.repo.Admin.Update(ctx, admin); err != nil {
		s.logger.Error("更新管理员失败", zap.Error(err))
		return nil, err
	}

	resp := toAdminResponse(admin, s.countyName(ctx, admin.CountyCode))
	return &resp, nil
}

func (s *adminService) Delete(ctx context.Context, id, operatorID int64) error {
	if id == operatorID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.repo.Admin.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return err
	}

	if err := s.repo.Admin.SoftDelete(ctx, id); err != nil {
		s.logger.Error("删除管理员失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) List(ctx context.Context, req *dto.AdminQueryRequest) ([]dto.AdminResponse, int64, error) {
	admins, total, err := s.repo.Admin.List(ctx, repository.AdminFilter{
		Role:       req.Role,
		CountyCode: req.CountyCode,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		s.logger.Error("查询管理员列表失败", zap.Error(err))
		return nil, 0, err
	}

	countyNames := s.countyNameIndex(ctx)
	list := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		name := ""
		if admins[i].CountyCode != nil {
			name = countyNames[*admins[i].CountyCode]
		}
		list = append(list, toAdminResponse(&admins[i], name))
	}
	return list, total, nil
}

// countyName 查询单个区县名称，查不到时返回空串
func (s *adminService) countyName(ctx context.Context, code *string) string {
	if code == nil {
		return ""
	}
	county, err := s.repo.County.GetByCode(ctx, *code)
	if err != nil {
		return ""
	}
	return county.Name
}

// countyNameIndex 构建 code → name 索引，查询失败时返回空索引
func (s *adminService) countyNameIndex(ctx context.Context) map[string]string {
	index := make(map[string]string)
	counties, err := s.repo.County.List(ctx)
	if err != nil {
		s.logger.Warn("查询区县列表失败", zap.Error(err))
		return index
	}
	for _, c := range counties {
		index[c.Code] = c.Name
	}
	return index
}

func toAdminResponse(admin *model.Admin, countyName string) dto.AdminResponse {
	return dto.AdminResponse{
		ID:            admin.ID,
		Username:      admin.Username,
		Role:          admin.Role,
		CountyCode:    admin.CountyCode,
		CountyName:    countyName,
		Status:        admin.Status,
		LastLoginTime: formatTimePtr(admin.LastLoginTime),
		CreatedTime:   formatTime(admin.CreatedTime),
	}
}
