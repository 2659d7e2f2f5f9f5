// pireader запускается на Raspberry Pi: читает DS18B20 и шлёт показания
// коллектору.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"thermo/internal/models"
	"thermo/internal/sensor"
)

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

type payload struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Kelvin     float64 `json:"kelvin"`
	DeviceID   string  `json:"device_id"`
	Timestamp  float64 `json:"timestamp"`
}

func main() {
	server := flag.String("server", "http://localhost:8000/update_temperature", "collector URL")
	name := flag.String("name", "", "device name")
	baseDir := flag.String("w1-dir", sensor.DefaultBaseDir, "1-wire sysfs base dir")
	interval := flag.Duration("interval", time.Second, "delay between readings")
	flag.Parse()

	log := logrus.New()
	deviceID := shortID()
	log.Infof("device %s (%s) sending to %s", deviceID, *name, *server)

	path, err := sensor.Find(*baseDir)
	if err != nil {
		log.Fatalf("sensor: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for {
		celsius, err := sensor.Read(path, 5)
		if err != nil {
			log.Errorf("read: %v", err)
			time.Sleep(*interval)
			continue
		}
		if err := send(client, *server, payload{
			Celsius:    celsius,
			Fahrenheit: models.CelsiusToFahrenheit(celsius),
			Kelvin:     models.CelsiusToKelvin(celsius),
			DeviceID:   deviceID,
			Timestamp:  float64(time.Now().Unix()),
		}); err != nil {
			// сервер не ретраит за нас — ретрай на стороне отправителя
			log.Errorf("send: %v", err)
		} else {
			log.Infof("sent %.2f°C", celsius)
		}
		time.Sleep(*interval)
	}
}

func send(client *http.Client, url string, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
