package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
)

var (
	ErrCountyNotFound = errors.New("区县不存在")
	ErrCountyExists   = errors.New("区县编码已存在")
)

// CountyService 区县基础数据接口
type CountyService interface {
	Create(ctx context.Context, req *dto.CreateCountyRequest) (*dto.CountyResponse, error)
	Update(ctx context.Context, code string, req *dto.UpdateCountyRequest) (*dto.CountyResponse, error)
	List(ctx context.Context) ([]dto.CountyResponse, error)
}

type countyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCountyService 创建 CountyService 实例
func NewCountyService(repo *repository.Repository, logger *zap.Logger) CountyService {
	return &countyService{repo: repo, logger: logger}
}

func (s *countyService) Create(ctx context.Context, req *dto.CreateCountyRequest) (*dto.CountyResponse, error) {
	county := &model.County{
		Code:   req.Code,
		Name:   req.Name,
		Status: model.StatusEnabled,
	}

	if err := s.repo.County.Create(ctx, county); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCountyExists
		}
		s.logger.Error("创建区县失败", zap.Error(err))
		return nil, err
	}

	resp := toCountyResponse(county)
	return &resp, nil
}

func (s *countyService) Update(ctx context.Context, code string, req *dto.UpdateCountyRequest) (*dto.CountyResponse, error) {
	county, err := s.repo.County.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCountyNotFound
		}
		s.logger.Error("查询区县失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		county.Name = *req.Name
	}
	if req.Status != nil {
		county.Status = *req.Status
	}

	if err := s.repo.County.Update(ctx, county); err != nil {
		s.logger.Error("更新区县失败", zap.Error(err))
		return nil, err
	}

	resp := toCountyResponse(county)
	return &resp, nil
}

func (s *countyService) List(ctx context.Context) ([]dto.CountyResponse, error) {
	counties, err := s.repo.County.List(ctx)
	if err != nil {
		s.logger.Error("查询区县列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.CountyResponse, 0, len(counties))
	for i := range counties {
		list = append(list, toCountyResponse(&counties[i]))
	}
	return list, nil
}

func toCountyResponse(county *model.County) dto.CountyResponse {
	return dto.CountyResponse{
		Code:        county.Code,
		Name:        county.Name,
		Status:      county.Status,
		CreatedTime: formatTime(county.CreatedTime),
	}
}
