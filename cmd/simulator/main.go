package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/smartenergy/metering/internal/config"
)

type reading struct {
	Value       float64 `json:"value"`
	ReadingDate string  `json:"reading_date"`
	MeterSerial string  `json:"meter_serial_number"`
	Email       string  `json:"email"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.ReadingsTopic()
	for i := 0; i < 100; i++ {
		r := reading{
			Value:       100 + rand.Float64()*50,
			ReadingDate: time.Now().Format("2006-01-02"),
			MeterSerial: fmt.Sprintf("SIM-%03d", i%5),
			Email:       "simulator@example.com",
		}
		payload, _ := json.Marshal(r)
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
