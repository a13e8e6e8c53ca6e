package service

import (
	"testing"
	"time"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"
)

func setupBoardTest(t *testing.T) (*ticketTestEnv, *BoardService) {
	t.Helper()
	env := setupTicketTest(t)
	board := NewBoardService(repository.NewRoutingRepository(env.db), &testKitchenConfig)
	return env, board
}

func TestBoardExcludesCompletedRecords(t *testing.T) {
	env, board := setupBoardTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	before, err := board.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(before) != len(records) {
		t.Fatalf("expected %d active records, got %d", len(records), len(before))
	}

	if _, err := env.tickets.Complete(records[0].ID, "chef-a"); err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	after, err := board.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(after) != len(records)-1 {
		t.Fatalf("expected %d active records after bump, got %d", len(records)-1, len(after))
	}
	for i := range after {
		if after[i].RoutingRecord.ID == records[0].ID {
			t.Fatalf("completed record still on board")
		}
	}
}

func TestBoardListsRecordsPlannedAfterPriorRead(t *testing.T) {
	env, board := setupBoardTest(t)

	before, err := board.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected empty board, got %d records", len(before))
	}

	// 规划入账随即失效看板缓存，下一次读取必须看到新记录
	records := env.planOrder(t, "T1", "Grilled Chicken")

	after, err := board.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(after) != len(records) {
		t.Fatalf("expected %d records after planning, got %d", len(records), len(after))
	}
}

func TestBoardStationFilterAndState(t *testing.T) {
	env, board := setupBoardTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")
	grill := records[0]

	if _, err := env.tickets.Start(grill.ID); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	view, err := board.ListActive(grill.StationID)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(view) != 1 {
		t.Fatalf("expected 1 record for station, got %d", len(view))
	}
	if view[0].State != constants.RecordStateStarted {
		t.Fatalf("expected started state, got %s", view[0].State)
	}
	if view[0].Stale {
		t.Fatalf("fresh record should not be stale")
	}
}

func TestBoardOrdersByPriorityThenAge(t *testing.T) {
	env, board := setupBoardTest(t)

	normal := &models.Order{
		OrderNo: "KDNORMAL1", TableNo: "T1",
		Kind: constants.OrderKindFood, Urgency: constants.OrderUrgencyNormal,
		Status: constants.OrderStatusNew,
		Items:  []models.OrderItem{{Name: "Grilled Chicken", Quantity: 1}},
	}
	vip := &models.Order{
		OrderNo: "KDVIP1", TableNo: "T2",
		Kind: constants.OrderKindFood, Urgency: constants.OrderUrgencyVIP,
		Status: constants.OrderStatusNew,
		Items:  []models.OrderItem{{Name: "Grilled Ribs", Quantity: 1}},
	}
	if err := env.db.Create(normal).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.db.Create(vip).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.planner.PlanOrder(normal); err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	if _, err := env.planner.PlanOrder(vip); err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}

	view, err := board.ListActive(0)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(view) < 2 {
		t.Fatalf("expected at least 2 records, got %d", len(view))
	}
	// 加急单排在普通单之前，与路由先后无关
	if view[0].Order == nil || view[0].Order.Urgency != constants.OrderUrgencyVIP {
		t.Fatalf("expected vip record first, got %+v", view[0].Order)
	}
}

func TestTableGroupsEmptyAfterTableBump(t *testing.T) {
	env, board := setupBoardTest(t)
	env.planOrder(t, "T5", "Grilled Chicken")
	env.planOrder(t, "T5", "Mystery Special")
	env.planOrder(t, "T6", "Fried Wings")

	groups, err := board.TableGroups()
	if err != nil {
		t.Fatalf("TableGroups error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 table groups, got %d", len(groups))
	}
	var t5 *repository.TableGroup
	for i := range groups {
		if groups[i].TableNo == "T5" {
			t5 = &groups[i]
		}
	}
	if t5 == nil || t5.OrderCount != 2 {
		t.Fatalf("expected T5 group with 2 orders, got %+v", t5)
	}

	if _, err := env.tickets.CompleteTable("T5", "expo-1"); err != nil {
		t.Fatalf("CompleteTable error: %v", err)
	}

	groups, err = board.TableGroups()
	if err != nil {
		t.Fatalf("TableGroups error: %v", err)
	}
	for i := range groups {
		if groups[i].TableNo == "T5" {
			t.Fatalf("T5 should be gone after table bump, got %+v", groups[i])
		}
	}
}

func TestBoardStaleFlag(t *testing.T) {
	env, _ := setupBoardTest(t)
	records := env.planOrder(t, "T1", "Grilled Chicken")

	// 回拨路由时间模拟滞留
	old := time.Now().Add(-time.Duration(testKitchenConfig.StaleAfterMinutes+5) * time.Minute)
	err := env.db.Model(&models.RoutingRecord{}).
		Where("id = ?", records[0].ID).
		Update("routed_at", old).Error
	if err != nil {
		t.Fatalf("update routed_at failed: %v", err)
	}

	board := NewBoardService(repository.NewRoutingRepository(env.db), &testKitchenConfig)
	view, err := board.ListActive(records[0].StationID)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(view) != 1 || !view[0].Stale {
		t.Fatalf("expected stale record, got %+v", view)
	}
}
