package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blm_rows_decoded_total",
			Help: "Rows decoded from BLM feeds",
		},
	)
	RecordsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blm_records_saved_total",
			Help: "Normalised property records written",
		},
	)
	RecordsUnchanged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blm_records_unchanged_total",
			Help: "Records skipped because their content hash did not change",
		},
	)
	RecordsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blm_records_failed_total",
			Help: "Records that could not be normalised or saved",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(RowsDecoded, RecordsSaved, RecordsUnchanged, RecordsFailed)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
