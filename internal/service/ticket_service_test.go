package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type ticketTestEnv struct {
	db      *gorm.DB
	planner *PlannerService
	tickets *TicketService
}

func setupTicketTest(t *testing.T) *ticketTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:ticket_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Station{},
		&models.Order{},
		&models.OrderItem{},
		&models.RoutingRecord{},
		&models.MetricSample{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	for i, category := range []string{
		constants.StationCategoryGrill,
		constants.StationCategoryPrep,
		constants.StationCategoryExpo,
	} {
		station := models.Station{Name: category, Category: category, Position: i + 1, Active: true}
		if err := db.Create(&station).Error; err != nil {
			t.Fatalf("create station failed: %v", err)
		}
	}

	routingRepo := repository.NewRoutingRepository(db)
	stationService := NewStationService(repository.NewStationRepository(db), &testKitchenConfig)
	planner := NewPlannerService(stationService, routingRepo, NewClassifier(), &testKitchenConfig)
	tickets := NewTicketService(routingRepo, nil, nil)
	return &ticketTestEnv{db: db, planner: planner, tickets: tickets}
}

func (env *ticketTestEnv) planOrder(t *testing.T, tableNo string, itemNames ...string) []*models.RoutingRecord {
	t.Helper()
	items := make([]models.OrderItem, 0, len(itemNames))
	for _, name := range itemNames {
		items = append(items, models.OrderItem{Name: name, Quantity: 1})
	}
	order := &models.Order{
		OrderNo: fmt.Sprintf("KD%d", time.Now().UnixNano()),
		TableNo: tableNo,
		Kind:    constants.OrderKindFood,
		Urgency: constants.OrderUrgencyNormal,
		Status:  constants.OrderStatusNew,
		Items:   items,
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	records, err := env.planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	return records
}

func (env *ticketTestEnv) sampleCount(t *testing.T, recordID uint) int64 {
	t.Helper()
	var count int64
	query := env.db.Model(&models.MetricSample{})
	if recordID > 0 {
		query = query.Where("record_id = ?", recordID)
	}
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("count samples failed: %v", err)
	}
	return count
}

func TestStartIsIdempotent(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	first, err := env.tickets.Start(records[0].ID)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if first.StartedAt == nil {
		t.Fatalf("expected started_at to be set")
	}

	second, err := env.tickets.Start(records[0].ID)
	if err != nil {
		t.Fatalf("repeated Start error: %v", err)
	}
	if second.StartedAt == nil || !second.StartedAt.Equal(*first.StartedAt) {
		t.Fatalf("expected original start time preserved, got %v vs %v", second.StartedAt, first.StartedAt)
	}
}

func TestStartCompletedRecordConflicts(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	if _, err := env.tickets.Complete(records[0].ID, "chef-a"); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if _, err := env.tickets.Start(records[0].ID); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestCompleteWinsOnlyOnce(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")
	recordID := records[0].ID

	record, err := env.tickets.Complete(recordID, "chef-a")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if record.CompletedAt == nil || record.BumpedBy != "chef-a" {
		t.Fatalf("expected completion fields set, got %+v", record)
	}
	if record.ActualPrepSeconds == nil {
		t.Fatalf("expected actual prep seconds recorded")
	}

	// 第二台终端同时出餐：条件写保证只有一方成功
	if _, err := env.tickets.Complete(recordID, "chef-b"); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
	if count := env.sampleCount(t, recordID); count != 1 {
		t.Fatalf("expected exactly one metric sample, got %d", count)
	}
}

func TestCompleteRequiresOperator(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	if _, err := env.tickets.Complete(records[0].ID, "  "); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
}

func TestCompleteMissingRecord(t *testing.T) {
	env := setupTicketTest(t)

	if _, err := env.tickets.Complete(9999, "chef-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecallRequeuesRecord(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")
	recordID := records[0].ID

	started, err := env.tickets.Start(recordID)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if _, err := env.tickets.Complete(recordID, "chef-a"); err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	result, err := env.tickets.Recall(recordID)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	record := result.Record
	if record.CompletedAt != nil || record.BumpedBy != "" || record.ActualPrepSeconds != nil {
		t.Fatalf("expected completion fields cleared, got %+v", record)
	}
	if record.RecallCount != 1 {
		t.Fatalf("expected recall_count 1, got %d", record.RecallCount)
	}
	if record.StartedAt == nil || !record.StartedAt.Equal(*started.StartedAt) {
		t.Fatalf("expected started_at preserved across recall")
	}

	// 召回后重新出餐：新时间、新操作员，召回计数保留
	reComplete, err := env.tickets.Complete(recordID, "chef-b")
	if err != nil {
		t.Fatalf("re-Complete error: %v", err)
	}
	if reComplete.BumpedBy != "chef-b" || reComplete.RecallCount != 1 {
		t.Fatalf("unexpected record after re-complete: %+v", reComplete)
	}
	if count := env.sampleCount(t, recordID); count != 2 {
		t.Fatalf("expected two metric samples after recall and re-complete, got %d", count)
	}
}

func TestRecallQueuedRecordConflicts(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	if _, err := env.tickets.Recall(records[0].ID); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestCompleteTableBumpsEverything(t *testing.T) {
	env := setupTicketTest(t)
	first := env.planOrder(t, "T7", "Grilled Chicken")
	second := env.planOrder(t, "T7", "Mystery Special")
	total := len(first) + len(second)

	completed, err := env.tickets.CompleteTable("T7", "expo-1")
	if err != nil {
		t.Fatalf("CompleteTable error: %v", err)
	}
	if len(completed) != total {
		t.Fatalf("expected %d completed records, got %d", total, len(completed))
	}
	for i := range completed {
		if completed[i].CompletedAt == nil || completed[i].BumpedBy != "expo-1" {
			t.Fatalf("record %d not completed: %+v", completed[i].ID, completed[i])
		}
	}
	if count := env.sampleCount(t, 0); count != int64(total) {
		t.Fatalf("expected %d metric samples, got %d", total, count)
	}

	// 已无在制记录，再次整桌出餐视为未找到
	if _, err := env.tickets.CompleteTable("T7", "expo-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// racingRoutingRepo 在整桌出餐取得快照后插入一次并发单点出餐
type racingRoutingRepo struct {
	repository.RoutingRepository
}

func (r *racingRoutingRepo) ListOpenByTable(tableNo string) ([]models.RoutingRecord, error) {
	records, err := r.RoutingRepository.ListOpenByTable(tableNo)
	if err != nil || len(records) == 0 {
		return records, err
	}
	if _, err := r.RoutingRepository.MarkCompleted(records[0].ID, "chef-racer", time.Now()); err != nil {
		return nil, err
	}
	return records, nil
}

func TestCompleteTableRejectedOnConcurrentBump(t *testing.T) {
	env := setupTicketTest(t)
	records := env.planOrder(t, "T7", "Grilled Chicken")

	racing := &racingRoutingRepo{RoutingRepository: repository.NewRoutingRepository(env.db)}
	tickets := NewTicketService(racing, nil, nil)

	if _, err := tickets.CompleteTable("T7", "expo-1"); !errors.Is(err, ErrBatchRejected) {
		t.Fatalf("expected ErrBatchRejected, got %v", err)
	}

	// 被拒绝的批量不完成任何记录，只有并发单点出餐那一条离场
	remaining, err := racing.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(remaining) != len(records)-1 {
		t.Fatalf("expected %d records still open, got %d", len(records)-1, len(remaining))
	}
	if count := env.sampleCount(t, 0); count != 1 {
		t.Fatalf("expected only the single bump sample, got %d", count)
	}
}

func TestCompleteTableRequiresOperator(t *testing.T) {
	env := setupTicketTest(t)
	env.planOrder(t, "T7", "Grilled Chicken")

	if _, err := env.tickets.CompleteTable("T7", ""); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
}
