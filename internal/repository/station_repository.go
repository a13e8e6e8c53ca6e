package repository

import (
	"errors"

	"github.com/kds-next/internal/models"

	"gorm.io/gorm"
)

// StationRepository 工位数据访问接口
type StationRepository interface {
	Create(station *models.Station) error
	Update(station *models.Station) error
	GetByID(id uint) (*models.Station, error)
	List(includeInactive bool) ([]models.Station, error)
	ListActive() ([]models.Station, error)
	SetActive(id uint, active bool) (bool, error)
}

// GormStationRepository GORM 实现
type GormStationRepository struct {
	db *gorm.DB
}

// NewStationRepository 创建工位仓库
func NewStationRepository(db *gorm.DB) *GormStationRepository {
	return &GormStationRepository{db: db}
}

// Create 创建工位
func (r *GormStationRepository) Create(station *models.Station) error {
	return r.db.Create(station).Error
}

// Update 更新工位
func (r *GormStationRepository) Update(station *models.Station) error {
	return r.db.Save(station).Error
}

// GetByID 根据 ID 获取工位
func (r *GormStationRepository) GetByID(id uint) (*models.Station, error) {
	var station models.Station
	if err := r.db.First(&station, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

// List 获取工位列表，按显示顺序排列
func (r *GormStationRepository) List(includeInactive bool) ([]models.Station, error) {
	var stations []models.Station
	query := r.db.Model(&models.Station{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("position asc, id asc").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

// ListActive 获取在用工位列表
func (r *GormStationRepository) ListActive() ([]models.Station, error) {
	return r.List(false)
}

// SetActive 启用/停用工位，返回是否发生变更
func (r *GormStationRepository) SetActive(id uint, active bool) (bool, error) {
	result := r.db.Model(&models.Station{}).
		Where("id = ? AND active = ?", id, !active).
		Update("active", active)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
