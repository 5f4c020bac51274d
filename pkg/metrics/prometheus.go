package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DossiersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amm_dossiers_total",
			Help: "Total number of dossiers by status",
		},
		[]string{"tenant_id", "status"},
	)

	FileVersionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amm_file_versions_total",
			Help: "Total number of file versions committed",
		},
		[]string{"tenant_id"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amm_logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
