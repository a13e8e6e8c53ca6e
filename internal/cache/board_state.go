package cache

import (
	"context"
	"fmt"
)

// 看板与工位快照缓存键。TTL 由调用方按配置传入，
// 账本发生变更时通过 InvalidateBoard 立即失效，而非等定时器过期。

const (
	stationSnapshotKey = "kitchen:stations:active"
	boardAllKey        = "kitchen:board:all"
	boardTablesKey     = "kitchen:board:tables"
)

// StationSnapshotKey 在用工位快照缓存键
func StationSnapshotKey() string {
	return stationSnapshotKey
}

// BoardKey 看板投影缓存键；stationID 为 0 表示全部工位
func BoardKey(stationID uint) string {
	if stationID == 0 {
		return boardAllKey
	}
	return fmt.Sprintf("kitchen:board:station:%d", stationID)
}

// TableBoardKey 桌台汇总投影缓存键
func TableBoardKey() string {
	return boardTablesKey
}

// InvalidateStations 工位管理变更后失效工位快照
func InvalidateStations(ctx context.Context) error {
	return Del(ctx, stationSnapshotKey)
}

// InvalidateBoard 账本变更事件驱动的看板缓存失效
func InvalidateBoard(ctx context.Context, stationIDs ...uint) error {
	keys := []string{boardAllKey, boardTablesKey}
	for _, id := range stationIDs {
		if id != 0 {
			keys = append(keys, BoardKey(id))
		}
	}
	return Del(ctx, keys...)
}
