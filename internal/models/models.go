package models

import (
	"time"
)

// TimestampLayout — формат времени, в котором показания отдаются наружу.
const TimestampLayout = "2006-01-02 15:04:05"

// Device — зарегистрированный датчик (реальный Pi или генератор).
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	DeviceID  string    `gorm:"column:device_id;uniqueIndex;size:64" json:"device_id"`
	Name      string    `gorm:"size:64" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Reading — одно показание температуры. Immutable после записи.
type Reading struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Celsius    float64   `json:"celsius"`
	Fahrenheit float64   `json:"fahrenheit"`
	Kelvin     float64   `json:"kelvin"`
	DeviceID   string    `gorm:"column:device_id;index:idx_readings_device,priority:1;size:64" json:"device_id"`
	Timestamp  time.Time `gorm:"index:idx_readings_device,priority:2" json:"timestamp"`
}

// Record — wire-форма показания для ответов и redis-списков.
// Fahrenheit/Kelvin здесь всегда пересчитаны из Celsius.
type Record struct {
	Timestamp  string  `json:"timestamp"`
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Kelvin     float64 `json:"kelvin"`
	DeviceID   string  `json:"device_id"`
}

// ToRecord пересчитывает производные шкалы из Celsius; присланные
// отправителем значения не используются.
func (r Reading) ToRecord() Record {
	return Record{
		Timestamp:  r.Timestamp.Format(TimestampLayout),
		Celsius:    r.Celsius,
		Fahrenheit: CelsiusToFahrenheit(r.Celsius),
		Kelvin:     CelsiusToKelvin(r.Celsius),
		DeviceID:   r.DeviceID,
	}
}
