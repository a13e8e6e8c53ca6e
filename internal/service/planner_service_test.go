package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testKitchenConfig = config.KitchenConfig{
	StaleAfterMinutes:      20,
	DefaultPrepSeconds:     300,
	StationCacheTTLSeconds: 60,
	BoardCacheTTLSeconds:   5,
}

func setupPlannerTest(t *testing.T, categories ...string) (*PlannerService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:planner_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	for i, category := range categories {
		station := models.Station{
			Name:     category,
			Category: category,
			Position: i + 1,
			Active:   true,
		}
		if err := db.Create(&station).Error; err != nil {
			t.Fatalf("create station failed: %v", err)
		}
	}

	stationService := NewStationService(repository.NewStationRepository(db), &testKitchenConfig)
	routingRepo := repository.NewRoutingRepository(db)
	return NewPlannerService(stationService, routingRepo, NewClassifier(), &testKitchenConfig), db
}

func createPlannerOrder(t *testing.T, db *gorm.DB, urgency, kind string, itemNames ...string) *models.Order {
	t.Helper()
	items := make([]models.OrderItem, 0, len(itemNames))
	for _, name := range itemNames {
		items = append(items, models.OrderItem{Name: name, Quantity: 1})
	}
	order := &models.Order{
		OrderNo: fmt.Sprintf("KD%d", time.Now().UnixNano()),
		TableNo: "T1",
		Kind:    kind,
		Urgency: urgency,
		Status:  constants.OrderStatusNew,
		Items:   items,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestPlanOrderRoutesToAllMatches(t *testing.T) {
	planner, db := setupPlannerTest(t,
		constants.StationCategoryGrill,
		constants.StationCategoryFryer,
		constants.StationCategoryBar,
		constants.StationCategoryPrep,
		constants.StationCategoryExpo,
	)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood,
		"Grilled Chicken", "Fries", "Coke")

	records, err := planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records (grill, fryer, bar, expo), got %d", len(records))
	}

	byCategory := map[string]*models.RoutingRecord{}
	for _, record := range records {
		if record.Station == nil {
			t.Fatalf("record %d missing station", record.ID)
		}
		byCategory[record.Station.Category] = record
	}
	for _, category := range []string{
		constants.StationCategoryGrill,
		constants.StationCategoryFryer,
		constants.StationCategoryBar,
		constants.StationCategoryExpo,
	} {
		if byCategory[category] == nil {
			t.Fatalf("expected record for %s, got categories %v", category, byCategory)
		}
	}

	expo := byCategory[constants.StationCategoryExpo]
	if expo.Sequence != constants.SequenceExpo {
		t.Fatalf("expected expo sequence %d, got %d", constants.SequenceExpo, expo.Sequence)
	}
	for category, record := range byCategory {
		if category == constants.StationCategoryExpo {
			continue
		}
		if record.Sequence >= expo.Sequence {
			t.Fatalf("%s sequence %d should be below expo %d", category, record.Sequence, expo.Sequence)
		}
	}
}

func TestPlanOrderUniquePerStation(t *testing.T) {
	planner, db := setupPlannerTest(t,
		constants.StationCategoryGrill,
		constants.StationCategoryExpo,
	)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood,
		"Grilled Chicken", "BBQ Ribs", "Steak Sandwich")

	records, err := planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (grill, expo), got %d", len(records))
	}
}

func TestPlanOrderCatchAllFallback(t *testing.T) {
	planner, db := setupPlannerTest(t,
		constants.StationCategoryGrill,
		constants.StationCategoryPrep,
		constants.StationCategoryExpo,
	)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood,
		"Mystery Special")

	records, err := planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected prep and expo records, got %d", len(records))
	}
	prep := records[0]
	if prep.Station.Category != constants.StationCategoryPrep {
		t.Fatalf("expected prep record first, got %s", prep.Station.Category)
	}
	if prep.Notes == "" {
		t.Fatalf("expected unclassified note on prep record")
	}
}

func TestPlanOrderMissingCategorySubstitution(t *testing.T) {
	planner, db := setupPlannerTest(t,
		constants.StationCategoryGrill,
		constants.StationCategoryPrep,
		constants.StationCategoryExpo,
	)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood,
		"Coke")

	records, err := planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (prep substitute, expo), got %d", len(records))
	}
	substitute := records[0]
	if substitute.Station.Category != constants.StationCategoryPrep {
		t.Fatalf("expected bar item rerouted to prep, got %s", substitute.Station.Category)
	}
	if substitute.Notes == "" {
		t.Fatalf("expected reroute note, got empty")
	}
}

func TestPlanOrderNoActiveStations(t *testing.T) {
	planner, db := setupPlannerTest(t)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood, "Fries")

	if _, err := planner.PlanOrder(order); !errors.Is(err, ErrNoActiveStation) {
		t.Fatalf("expected ErrNoActiveStation, got %v", err)
	}
}

func TestPlanOrderExpoPromotedNotDuplicated(t *testing.T) {
	planner, db := setupPlannerTest(t, constants.StationCategoryExpo)
	order := createPlannerOrder(t, db, constants.OrderUrgencyNormal, constants.OrderKindFood,
		"Mystery Special")

	records, err := planner.PlanOrder(order)
	if err != nil {
		t.Fatalf("PlanOrder error: %v", err)
	}
	// 兜底工位就是出品口时只产生一条记录，序号为保留值
	if len(records) != 1 {
		t.Fatalf("expected single promoted record, got %d", len(records))
	}
	if records[0].Sequence != constants.SequenceExpo {
		t.Fatalf("expected sequence %d, got %d", constants.SequenceExpo, records[0].Sequence)
	}
}

func TestOrderPriority(t *testing.T) {
	cases := []struct {
		urgency string
		kind    string
		want    int
	}{
		{constants.OrderUrgencyNormal, constants.OrderKindFood, constants.PriorityNormal},
		{constants.OrderUrgencyRush, constants.OrderKindFood, constants.PriorityRush},
		{constants.OrderUrgencyVIP, constants.OrderKindFood, constants.PriorityVIP},
		{constants.OrderUrgencyNormal, constants.OrderKindBeverage, constants.PriorityNormal + 1},
		{constants.OrderUrgencyVIP, constants.OrderKindBeverage, constants.PriorityVIP + 1},
	}
	for _, tc := range cases {
		t.Run(tc.urgency+"_"+tc.kind, func(t *testing.T) {
			got := orderPriority(&models.Order{Urgency: tc.urgency, Kind: tc.kind})
			if got != tc.want {
				t.Fatalf("expected priority %d, got %d", tc.want, got)
			}
		})
	}
}
