package service

import (
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"
)

// MetricService 备餐耗时样本查询服务，样本只增不改
type MetricService struct {
	repo repository.MetricRepository
}

// NewMetricService 创建统计服务
func NewMetricService(repo repository.MetricRepository) *MetricService {
	return &MetricService{repo: repo}
}

// List 按条件查询样本
func (s *MetricService) List(filter repository.MetricFilter) ([]models.MetricSample, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(filter)
}

// StationSummary 单工位的耗时汇总
type StationSummary struct {
	StationID    uint    `json:"station_id"`
	SampleCount  int     `json:"sample_count"`
	AvgSeconds   float64 `json:"avg_seconds"`
	MaxSeconds   int     `json:"max_seconds"`
	TotalSeconds int64   `json:"total_seconds"`
}

// Summarize 聚合指定班次日期的各工位耗时
func (s *MetricService) Summarize(shiftDate string) ([]StationSummary, error) {
	samples, err := s.repo.List(repository.MetricFilter{ShiftDate: shiftDate})
	if err != nil {
		return nil, err
	}

	byStation := make(map[uint]*StationSummary)
	var order []uint
	for i := range samples {
		sample := &samples[i]
		summary, ok := byStation[sample.StationID]
		if !ok {
			summary = &StationSummary{StationID: sample.StationID}
			byStation[sample.StationID] = summary
			order = append(order, sample.StationID)
		}
		summary.SampleCount++
		summary.TotalSeconds += int64(sample.DurationSeconds)
		if sample.DurationSeconds > summary.MaxSeconds {
			summary.MaxSeconds = sample.DurationSeconds
		}
	}

	result := make([]StationSummary, 0, len(order))
	for _, stationID := range order {
		summary := byStation[stationID]
		if summary.SampleCount > 0 {
			summary.AvgSeconds = float64(summary.TotalSeconds) / float64(summary.SampleCount)
		}
		result = append(result, *summary)
	}
	return result, nil
}
