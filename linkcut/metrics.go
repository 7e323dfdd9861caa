package linkcut

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// opsTotal 按操作与结果统计森林操作次数。
var opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rangekit_linkcut_ops_total",
	Help: "Total link/cut forest operations by op and result",
}, []string{"op", "result"})

func observeOp(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	opsTotal.WithLabelValues(op, result).Inc()
}
