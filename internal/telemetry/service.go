package telemetry

import (
	"time"

	"thermo/internal/models"
)

// NewReading нормализует принятое показание: производные шкалы считаются
// из celsius заново независимо от того, что прислал отправитель.
func NewReading(celsius float64, deviceID string, ts time.Time) models.Reading {
	return models.Reading{
		Celsius:    celsius,
		Fahrenheit: models.CelsiusToFahrenheit(celsius),
		Kelvin:     models.CelsiusToKelvin(celsius),
		DeviceID:   deviceID,
		Timestamp:  ts,
	}
}
