package telemetry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"thermo/internal/logs"
	"thermo/internal/metrics"
	"thermo/internal/storage"
)

type HTTP struct {
	store storage.Store
}

func NewHTTP(s storage.Store) *HTTP { return &HTTP{store: s} }

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/update_temperature", h.updateTemperature).Methods(http.MethodPost)
	r.HandleFunc("/temperature_data", h.temperatureData).Methods(http.MethodGet)
	r.HandleFunc("/devices", h.listDevices).Methods(http.MethodGet)
}

// updatePayload — суперсет схемы всех вариантов отправителей.
// fahrenheit/kelvin принимаются, но значения игнорируются: производные
// шкалы всегда пересчитываются из celsius.
type updatePayload struct {
	Celsius    *float64 `json:"celsius"`
	Fahrenheit *float64 `json:"fahrenheit"`
	Kelvin     *float64 `json:"kelvin"`
	DeviceID   string   `json:"device_id"`
	Timestamp  *float64 `json:"timestamp"` // epoch seconds
}

// POST /update_temperature
func (h *HTTP) updateTemperature(w http.ResponseWriter, r *http.Request) {
	var in updatePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		metrics.ValidationRejected.Inc()
		http.Error(w, "invalid temperature data", http.StatusBadRequest)
		return
	}
	if in.Celsius == nil || in.Timestamp == nil {
		metrics.ValidationRejected.Inc()
		http.Error(w, "invalid temperature data", http.StatusBadRequest)
		return
	}
	deviceID := SanitizeDeviceID(in.DeviceID)
	if deviceID == "" {
		metrics.ValidationRejected.Inc()
		http.Error(w, "device id required", http.StatusBadRequest)
		return
	}

	reading := NewReading(*in.Celsius, deviceID, epochToTime(*in.Timestamp))

	ctx := r.Context()
	// сначала реестр, потом серия: показание всегда принадлежит
	// зарегистрированному устройству
	_, created, err := h.store.Register(ctx, deviceID, "")
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	if created {
		metrics.DevicesRegistered.Inc()
	}
	if err := h.store.Append(ctx, deviceID, reading); err != nil {
		h.storageError(w, r, err)
		return
	}

	metrics.ReadingsIngested.Inc()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Temperature updated successfully"))
}

// GET /temperature_data?device_id=X[&from=epoch&to=epoch]
func (h *HTTP) temperatureData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	deviceID := SanitizeDeviceID(q.Get("device_id"))
	if deviceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "device id required"})
		return
	}
	from, err := parseEpoch(q.Get("from"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from"})
		return
	}
	to, err := parseEpoch(q.Get("to"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to"})
		return
	}

	readings, err := h.store.Query(r.Context(), deviceID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	data := make([]any, 0, len(readings))
	for _, rd := range readings {
		if !from.IsZero() && rd.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && rd.Timestamp.After(to) {
			continue
		}
		data = append(data, rd.ToRecord())
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func parseEpoch(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, err
	}
	return epochToTime(sec), nil
}

// GET /devices
func (h *HTTP) listDevices(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.List(r.Context())
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *HTTP) storageError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.StorageErrors.Inc()
	logs.Logger.WithField("path", r.URL.Path).Errorf("storage: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
}

func epochToTime(sec float64) time.Time {
	return time.Unix(int64(sec), 0)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
