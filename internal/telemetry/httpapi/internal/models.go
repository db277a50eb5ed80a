package internal

import (
	"time"

	"feinstaub-server/internal/telemetry/domain"
)

// CurrentReadingResponse mirrors the payload shape the sensor publishes, so
// dashboard clients see the same keys on the REST and MQTT sides.
type CurrentReadingResponse struct {
	ReceivedAt     time.Time      `json:"received_at"`
	DecodedPayload DecodedPayload `json:"decoded_payload"`
}

type DecodedPayload struct {
	PM1Mass             *float64 `json:"pm1_mass_ugm3"`
	PM25Mass            *float64 `json:"pm2_5_mass_ugm3"`
	PM4Mass             *float64 `json:"pm4_mass_ugm3"`
	PM10Mass            *float64 `json:"pm10_mass_ugm3"`
	PM1Count            *float64 `json:"pm1_count_cm3"`
	PM25Count           *float64 `json:"pm2_5_count_cm3"`
	PM4Count            *float64 `json:"pm4_count_cm3"`
	PM10Count           *float64 `json:"pm10_count_cm3"`
	TypicalParticleSize *float64 `json:"typical_particle_size"`
	Temperature         *float64 `json:"temperature_C"`
	Humidity            *float64 `json:"humidity_rel"`
	SupplyVoltage       *float64 `json:"supply_voltage_V"`
}

func ToCurrentReadingResponse(reading domain.Reading) CurrentReadingResponse {
	return CurrentReadingResponse{
		ReceivedAt: reading.ReceivedAt,
		DecodedPayload: DecodedPayload{
			PM1Mass:             reading.PM1Mass,
			PM25Mass:            reading.PM25Mass,
			PM4Mass:             reading.PM4Mass,
			PM10Mass:            reading.PM10Mass,
			PM1Count:            reading.PM1Count,
			PM25Count:           reading.PM25Count,
			PM4Count:            reading.PM4Count,
			PM10Count:           reading.PM10Count,
			TypicalParticleSize: reading.TypicalParticleSize,
			Temperature:         reading.Temperature,
			Humidity:            reading.Humidity,
			SupplyVoltage:       reading.SupplyVoltage,
		},
	}
}

// HistoricalPoint is the chart-oriented projection of a reading. The supply
// voltage channel is diagnostic and not plotted, so it is left out here.
type HistoricalPoint struct {
	Time                time.Time `json:"time"`
	PM1Mass             *float64  `json:"pm1_mass_ugm3"`
	PM25Mass            *float64  `json:"pm2_5_mass_ugm3"`
	PM4Mass             *float64  `json:"pm4_mass_ugm3"`
	PM10Mass            *float64  `json:"pm10_mass_ugm3"`
	PM1Count            *float64  `json:"pm1_count_cm3"`
	PM25Count           *float64  `json:"pm2_5_count_cm3"`
	PM4Count            *float64  `json:"pm4_count_cm3"`
	PM10Count           *float64  `json:"pm10_count_cm3"`
	TypicalParticleSize *float64  `json:"typical_particle_size"`
	Temperature         *float64  `json:"temperature_C"`
	Humidity            *float64  `json:"humidity_rel"`
}

func ToHistoricalPoint(reading domain.Reading) HistoricalPoint {
	return HistoricalPoint{
		Time:                reading.ReceivedAt,
		PM1Mass:             reading.PM1Mass,
		PM25Mass:            reading.PM25Mass,
		PM4Mass:             reading.PM4Mass,
		PM10Mass:            reading.PM10Mass,
		PM1Count:            reading.PM1Count,
		PM25Count:           reading.PM25Count,
		PM4Count:            reading.PM4Count,
		PM10Count:           reading.PM10Count,
		TypicalParticleSize: reading.TypicalParticleSize,
		Temperature:         reading.Temperature,
		Humidity:            reading.Humidity,
	}
}

func ToHistoricalPoints(readings []domain.Reading) []HistoricalPoint {
	points := make([]HistoricalPoint, len(readings))
	for i, reading := range readings {
		points[i] = ToHistoricalPoint(reading)
	}
	return points
}

type StatsResponse struct {
	TotalEntries         int64      `json:"total_entries"`
	CurrentDataAvailable bool       `json:"current_data_available"`
	OldestEntry          *time.Time `json:"oldest_entry"`
	NewestEntry          *time.Time `json:"newest_entry"`
}

type ConfigResponse struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type AuthRequest struct {
	Password string `json:"password"`
}

type AuthResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type AuthFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HealthResponse struct {
	Status        string  `json:"status"`
	MQTTConnected bool    `json:"mqtt_connected"`
	Uptime        float64 `json:"uptime"`
	DBConnected   bool    `json:"db_connected"`
}
