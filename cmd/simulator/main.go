// simulator генерирует синтетический трафик показаний для коллектора.
// С флагом -spike изредка шлёт резкие выбросы температуры.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"thermo/internal/models"
)

type payload struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Kelvin     float64 `json:"kelvin"`
	DeviceID   string  `json:"device_id"`
	Timestamp  float64 `json:"timestamp"`
}

func main() {
	server := flag.String("server", "http://localhost:8000/update_temperature", "collector URL")
	devices := flag.Int("devices", 1, "number of simulated devices")
	spike := flag.Bool("spike", false, "5% chance of a 35-45°C spike")
	flag.Parse()

	log := logrus.New()
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	for i := 0; i < *devices; i++ {
		deviceID := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(log.WithField("device_id", deviceID), client, *server, deviceID, *spike)
		}()
	}
	wg.Wait()
}

func run(log *logrus.Entry, client *http.Client, server, deviceID string, spike bool) {
	for {
		celsius := generate(spike)
		p := payload{
			Celsius:    celsius,
			Fahrenheit: models.CelsiusToFahrenheit(celsius),
			Kelvin:     models.CelsiusToKelvin(celsius),
			DeviceID:   deviceID,
			Timestamp:  float64(time.Now().Unix()),
		}
		if err := send(client, server, p); err != nil {
			log.Errorf("send: %v", err)
		} else {
			log.Infof("sent %.2f°C", celsius)
		}
		// пауза 0.3–1с, как у реальных генераторов
		time.Sleep(time.Duration(300+rand.Intn(700)) * time.Millisecond)
	}
}

func generate(spike bool) float64 {
	if spike && rand.Float64() < 0.05 {
		return 35 + rand.Float64()*10
	}
	return rand.Float64() * 40
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
