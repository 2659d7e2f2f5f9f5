package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReadingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermo_readings_ingested_total",
		Help: "Readings accepted and stored.",
	})
	ValidationRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermo_validation_rejected_total",
		Help: "Ingestion payloads rejected at validation.",
	})
	StorageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermo_storage_errors_total",
		Help: "Failed storage operations surfaced as 5xx.",
	})
	DevicesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermo_devices_registered_total",
		Help: "First-time device registrations.",
	})
)

func Handler() http.Handler { return promhttp.Handler() }
