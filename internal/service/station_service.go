package service

import (
	"context"
	"strings"
	"time"

	"github.com/kds-next/internal/cache"
	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"
)

// validStationCategories 允许的工位类别
var validStationCategories = map[string]bool{
	constants.StationCategoryGrill:   true,
	constants.StationCategoryFryer:   true,
	constants.StationCategorySalad:   true,
	constants.StationCategoryBar:     true,
	constants.StationCategoryDessert: true,
	constants.StationCategoryPrep:    true,
	constants.StationCategoryExpo:    true,
}

// StationService 工位管理服务
type StationService struct {
	repo     repository.StationRepository
	cacheTTL time.Duration
}

// NewStationService 创建工位服务
func NewStationService(repo repository.StationRepository, cfg *config.KitchenConfig) *StationService {
	ttl := 60 * time.Second
	if cfg != nil && cfg.StationCacheTTLSeconds > 0 {
		ttl = time.Duration(cfg.StationCacheTTLSeconds) * time.Second
	}
	return &StationService{repo: repo, cacheTTL: ttl}
}

// StationInput 创建/更新工位输入
type StationInput struct {
	Name     string
	Category string
	Color    string
	Position int
	Active   *bool
	Config   map[string]interface{}
}

func (input StationInput) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidStation
	}
	if !validStationCategories[input.Category] {
		return ErrInvalidStation
	}
	return nil
}

// List 获取工位列表
func (s *StationService) List(includeInactive bool) ([]models.Station, error) {
	return s.repo.List(includeInactive)
}

// GetByID 获取单个工位
func (s *StationService) GetByID(id uint) (*models.Station, error) {
	station, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, ErrNotFound
	}
	return station, nil
}

// Create 创建工位
func (s *StationService) Create(input StationInput) (*models.Station, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	station := models.Station{
		Name:     strings.TrimSpace(input.Name),
		Category: input.Category,
		Color:    input.Color,
		Position: input.Position,
		Active:   active,
		Config:   models.JSON(input.Config),
	}
	if err := s.repo.Create(&station); err != nil {
		return nil, err
	}
	s.invalidateSnapshot()
	return &station, nil
}

// Update 更新工位
func (s *StationService) Update(id uint, input StationInput) (*models.Station, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	station, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, ErrNotFound
	}

	station.Name = strings.TrimSpace(input.Name)
	station.Category = input.Category
	station.Color = input.Color
	station.Position = input.Position
	if input.Active != nil {
		station.Active = *input.Active
	}
	if input.Config != nil {
		station.Config = models.JSON(input.Config)
	}
	if err := s.repo.Update(station); err != nil {
		return nil, err
	}
	s.invalidateSnapshot()
	return station, nil
}

// SetActive 启用/停用工位
func (s *StationService) SetActive(id uint, active bool) (*models.Station, error) {
	station, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, ErrNotFound
	}
	changed, err := s.repo.SetActive(id, active)
	if err != nil {
		return nil, err
	}
	if changed {
		station.Active = active
		s.invalidateSnapshot()
	}
	return station, nil
}

// ActiveSnapshot 获取路由决策使用的在用工位快照
func (s *StationService) ActiveSnapshot() ([]models.Station, error) {
	ctx := context.Background()
	var cached []models.Station
	hit, err := cache.GetJSON(ctx, cache.StationSnapshotKey(), &cached)
	if err != nil {
		logger.Warnw("station_snapshot_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	stations, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, cache.StationSnapshotKey(), stations, s.cacheTTL); err != nil {
		logger.Warnw("station_snapshot_cache_write_failed", "error", err)
	}
	return stations, nil
}

func (s *StationService) invalidateSnapshot() {
	if err := cache.InvalidateStations(context.Background()); err != nil {
		logger.Warnw("station_snapshot_invalidate_failed", "error", err)
	}
}
