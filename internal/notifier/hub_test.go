package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
)

func startTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(config.NotifierConfig{SendBufferSize: 4})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = hub.Start(ctx)
	}()
	return hub, cancel
}

func waitForMessage(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub, cancel := startTestHub(t)
	defer cancel()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- client

	record := &models.RoutingRecord{ID: 7, OrderID: 1, StationID: 3}
	hub.Broadcast(NewRecordEvent(constants.EventRecordStarted, record))

	msg := waitForMessage(t, client.send)
	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal event failed: %v", err)
	}
	if event.Kind != constants.EventRecordStarted {
		t.Fatalf("expected kind %s, got %s", constants.EventRecordStarted, event.Kind)
	}
	if event.Record == nil || event.Record.ID != 7 {
		t.Fatalf("expected record 7 in event, got %+v", event.Record)
	}
}

func TestHubStationFilter(t *testing.T) {
	hub, cancel := startTestHub(t)
	defer cancel()

	all := &Client{hub: hub, send: make(chan []byte, 4)}
	other := &Client{hub: hub, send: make(chan []byte, 4), stationID: 2}
	hub.register <- all
	hub.register <- other

	hub.Broadcast(NewRecordEvent(constants.EventRecordCompleted, &models.RoutingRecord{ID: 1, StationID: 1}))

	waitForMessage(t, all.send)
	select {
	case msg := <-other.send:
		t.Fatalf("station filter leaked event: %s", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHubOrderEventReachesFilteredClients(t *testing.T) {
	hub, cancel := startTestHub(t)
	defer cancel()

	// 全局事件不带工位归属，任何过滤条件下都要送达
	filtered := &Client{hub: hub, send: make(chan []byte, 4), stationID: 9}
	hub.register <- filtered

	hub.Broadcast(NewOrderEvent(constants.EventOrderReady, &models.Order{ID: 5, TableNo: "T1"}))

	msg := waitForMessage(t, filtered.send)
	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal event failed: %v", err)
	}
	if event.Kind != constants.EventOrderReady || event.Order == nil || event.Order.ID != 5 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, cancel := startTestHub(t)
	defer cancel()

	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- slow

	// 第二条事件打满缓冲，终端应被断开强制重新拉取全量
	hub.Broadcast(NewRecordEvent(constants.EventRecordCreated, &models.RoutingRecord{ID: 1}))
	hub.Broadcast(NewRecordEvent(constants.EventRecordCreated, &models.RoutingRecord{ID: 2}))

	deadline := time.After(2 * time.Second)
	received := 0
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				if received != 1 {
					t.Fatalf("expected exactly one delivered message before drop, got %d", received)
				}
				return
			}
			received++
		case <-deadline:
			t.Fatalf("expected send channel to be closed after drop")
		}
	}
}
