package hld

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/wyfcoding/rangekit/hld")

var (
	// pathOpsTotal 按操作与结果统计路径操作次数。
	pathOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rangekit_hld_path_ops_total",
		Help: "Total HLD path operations by op and result",
	}, []string{"op", "result"})

	// pathOpDuration 路径操作耗时分布。
	pathOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rangekit_hld_path_op_duration_seconds",
		Help:    "HLD path operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.000001, 2, 14), // 1µs 到 ~8ms
	}, []string{"op"})
)
