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
	ErrTeachingPointNotFound = errors.New("教学点不存在")
	ErrTeachingPointDisabled = errors.New("教学点已停用")
)

// TeachingPointService 教学点管理接口
// 县级管理员只能查看并管理本区县的教学点
type TeachingPointService interface {
	Create(ctx context.Context, op Operator, req *dto.CreateTeachingPointRequest) (*dto.TeachingPointResponse, error)
	Get(ctx context.Context, op Operator, id int64) (*dto.TeachingPointResponse, error)
	Update(ctx context.Context, op Operator, id int64, req *dto.UpdateTeachingPointRequest) (*dto.TeachingPointResponse, error)
	List(ctx context.Context, op Operator, req *dto.TeachingPointQueryRequest) ([]dto.TeachingPointResponse, int64, error)
}

type teachingPointService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeachingPointService 创建 TeachingPointService 实例
func NewTeachingPointService(repo *repository.Repository, logger *zap.Logger) TeachingPointService {
	return &teachingPointService{repo: repo, logger: logger}
}

func (s *teachingPointService) Create(ctx context.Context, op Operator, req *dto.CreateTeachingPointRequest) (*dto.TeachingPointResponse, error) {
	if op.Role == model.RoleCounty && req.CountyCode != op.CountyCode {
		return nil, ErrPermissionDenied
	}

	county, err := s.repo.County.GetByCode(ctx, req.CountyCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCountyNotFound
		}
		s.logger.Error("查询区县失败", zap.Error(err))
		return nil, err
	}

	point := &model.TeachingPoint{
		Name:       req.Name,
		CountyCode: req.CountyCode,
		Status:     model.StatusEnabled,
	}
	if err := s.repo.TeachingPoint.Create(ctx, point); err != nil {
		s.logger.Error("创建教学点失败", zap.Error(err))
		return nil, err
	}

	resp := toTeachingPointResponse(point, county.Name)
	return &resp, nil
}

func (s *teachingPointService) Get(ctx context.Context, op Operator, id int64) (*dto.TeachingPointResponse, error) {
	point, err := s.getVisible(ctx, op, id)
	if err != nil {
		return nil, err
	}

	resp := toTeachingPointResponse(point, s.countyName(ctx, point.CountyCode))
	return &resp, nil
}

func (s *teachingPointService) Update(ctx context.Context, op Operator, id int64, req *dto.UpdateTeachingPointRequest) (*dto.TeachingPointResponse, error) {
	point, err := s.getVisible(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		point.Name = *req.Name
	}
	if req.Status != nil {
		point.Status = *req.Status
	}

	if err := s.repo.TeachingPoint.Update(ctx, point); err != nil {
		s.logger.Error("更新教学点失败", zap.Error(err))
		return nil, err
	}

	resp := toTeachingPointResponse(point, s.countyName(ctx, point.CountyCode))
	return &resp, nil
}

func (s *teachingPointService) List(ctx context.Context, op Operator, req *dto.TeachingPointQueryRequest) ([]dto.TeachingPointResponse, int64, error) {
	countyCode := req.CountyCode
	if op.Role == model.RoleCounty {
		countyCode = op.CountyCode
	}

	points, total, err := s.repo.TeachingPoint.List(ctx, repository.TeachingPointFilter{
		CountyCode: countyCode,
		Name:       req.Name,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		s.logger.Error("查询教学点列表失败", zap.Error(err))
		return nil, 0, err
	}

	countyNames := make(map[string]string)
	if counties, err := s.repo.County.List(ctx); err == nil {
		for _, c := range counties {
			countyNames[c.Code] = c.Name
		}
	}

	list := make([]dto.TeachingPointResponse, 0, len(points))
	for i := range points {
		list = append(list, toTeachingPointResponse(&points[i], countyNames[points[i].CountyCode]))
	}
	return list, total, nil
}

// getVisible 查询教学点并校验区县可见性
func (s *teachingPointService) getVisible(ctx context.Context, op Operator, id int64) (*model.TeachingPoint, error) {
	point, err := s.repo.TeachingPoint.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeachingPointNotFound
		}
		s.logger.Error("查询教学点失败", zap.Error(err))
		return nil, err
	}
	if op.Role == model.RoleCounty && point.CountyCode != op.CountyCode {
		return nil, ErrPermissionDenied
	}
	return point, nil
}

func (s *teachingPointService) countyName(ctx context.Context, code string) string {
	county, err := s.repo.County.GetByCode(ctx, code)
	if err != nil {
		return ""
	}
	return county.Name
}

func toTeachingPointResponse(point *model.TeachingPoint, countyName string) dto.TeachingPointResponse {
	return dto.TeachingPointResponse{
		ID:          point.ID,
		Name:        point.Name,
		CountyCode:  point.CountyCode,
		CountyName:  countyName,
		Status:      point.Status,
		CreatedTime: formatTime(point.CreatedTime),
	}
}
