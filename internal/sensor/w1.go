// Package sensor читает DS18B20 по 1-wire через sysfs
// (/sys/bus/w1/devices/28*/w1_slave).
package sensor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseDir = "/sys/bus/w1/devices"

var (
	ErrCRC      = errors.New("sensor: bad crc")
	ErrNoSensor = errors.New("sensor: no 1-wire device found")
)

// Find возвращает путь к w1_slave первого найденного датчика 28*.
func Find(baseDir string) (string, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	matches, err := filepath.Glob(filepath.Join(baseDir, "28*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoSensor
	}
	return filepath.Join(matches[0], "w1_slave"), nil
}

// Parse разбирает содержимое w1_slave:
//
//	73 01 4b 46 7f ff 0d 10 41 : crc=41 YES
//	73 01 4b 46 7f ff 0d 10 41 t=23187
//
// Возвращает градусы Цельсия.
func Parse(raw string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("sensor: unexpected output %q", raw)
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, ErrCRC
	}
	idx := strings.LastIndex(lines[1], "t=")
	if idx < 0 {
		return 0, fmt.Errorf("sensor: no temperature in %q", lines[1])
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(lines[1][idx+2:]), 64)
	if err != nil {
		return 0, fmt.Errorf("sensor: parse temperature: %w", err)
	}
	return milli / 1000.0, nil
}

// Read читает датчик, перечитывая при плохом CRC.
func Read(path string, attempts int) (float64, error) {
	if attempts <= 0 {
		attempts = 5
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		raw, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		c, err := Parse(string(raw))
		if err == nil {
			return c, nil
		}
		lastErr = err
		if !errors.Is(err, ErrCRC) {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	return 0, lastErr
}
