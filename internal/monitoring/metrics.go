package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 进程内运行指标，经 /metrics 暴露给 Prometheus 抓取
var (
	// RecordsRouted 按工位类别统计的路由记录数
	RecordsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kds",
		Name:      "records_routed_total",
		Help:      "Routing records created, labeled by station category.",
	}, []string{"category"})

	// RecordTransitions 按动作统计的状态流转次数
	RecordTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kds",
		Name:      "record_transitions_total",
		Help:      "Record state transitions, labeled by action.",
	}, []string{"action"})

	// TransitionConflicts 被条件写拒绝的流转次数
	TransitionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kds",
		Name:      "transition_conflicts_total",
		Help:      "Transitions rejected by the conditional write guard.",
	}, []string{"action"})

	// PrepSeconds 出餐耗时分布
	PrepSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kds",
		Name:      "prep_seconds",
		Help:      "Observed preparation time per completed record.",
		Buckets:   []float64{30, 60, 120, 240, 480, 900, 1800},
	})

	// NotifierClients 当前连接的看板终端数
	NotifierClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kds",
		Name:      "notifier_clients",
		Help:      "Connected display terminals.",
	})
)
