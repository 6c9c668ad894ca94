package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpwsh/splash/internal/core/metrics"
)

// NewMetricsHandler 创建指标处理器
//
// GET / 返回 JSON 快照，GET /metrics 返回 prometheus 文本格式。
func NewMetricsHandler(m *metrics.Metrics) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(m.Collector()); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, m.Snapshot())
	})
	return mux, nil
}
