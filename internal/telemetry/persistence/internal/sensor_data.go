package internal

import (
	"time"

	"feinstaub-server/internal/telemetry/domain"
)

// SensorData is the storage row for one reading. Column names follow the
// origin's decoded-payload keys so the table stays self-describing.
type SensorData struct {
	ID                  uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ReceivedAt          time.Time `json:"received_at" gorm:"column:received_at;index;not null"`
	PM1MassUgm3         *float64  `json:"pm1_mass_ugm3" gorm:"column:pm1_mass_ugm3"`
	PM25MassUgm3        *float64  `json:"pm2_5_mass_ugm3" gorm:"column:pm2_5_mass_ugm3"`
	PM4MassUgm3         *float64  `json:"pm4_mass_ugm3" gorm:"column:pm4_mass_ugm3"`
	PM10MassUgm3        *float64  `json:"pm10_mass_ugm3" gorm:"column:pm10_mass_ugm3"`
	PM1CountCm3         *float64  `json:"pm1_count_cm3" gorm:"column:pm1_count_cm3"`
	PM25CountCm3        *float64  `json:"pm2_5_count_cm3" gorm:"column:pm2_5_count_cm3"`
	PM4CountCm3         *float64  `json:"pm4_count_cm3" gorm:"column:pm4_count_cm3"`
	PM10CountCm3        *float64  `json:"pm10_count_cm3" gorm:"column:pm10_count_cm3"`
	TypicalParticleSize *float64  `json:"typical_particle_size" gorm:"column:typical_particle_size"`
	TemperatureC        *float64  `json:"temperature_C" gorm:"column:temperature_c"`
	HumidityRel         *float64  `json:"humidity_rel" gorm:"column:humidity_rel"`
	SupplyVoltageV      *float64  `json:"supply_voltage_V" gorm:"column:supply_voltage_v"`
	CreatedAt           time.Time `json:"created_at"`
}

func (SensorData) TableName() string {
	return "sensor_data"
}

func (s SensorData) ToDomain() domain.Reading {
	return domain.Reading{
		SequenceID:          s.ID,
		ReceivedAt:          s.ReceivedAt,
		PM1Mass:             s.PM1MassUgm3,
		PM25Mass:            s.PM25MassUgm3,
		PM4Mass:             s.PM4MassUgm3,
		PM10Mass:            s.PM10MassUgm3,
		PM1Count:            s.PM1CountCm3,
		PM25Count:           s.PM25CountCm3,
		PM4Count:            s.PM4CountCm3,
		PM10Count:           s.PM10CountCm3,
		TypicalParticleSize: s.TypicalParticleSize,
		Temperature:         s.TemperatureC,
		Humidity:            s.HumidityRel,
		SupplyVoltage:       s.SupplyVoltageV,
	}
}

func FromReading(value domain.Reading) SensorData {
	return SensorData{
		ID:                  value.SequenceID,
		ReceivedAt:          value.ReceivedAt,
		PM1MassUgm3:         value.PM1Mass,
		PM25MassUgm3:        value.PM25Mass,
		PM4MassUgm3:         value.PM4Mass,
		PM10MassUgm3:        value.PM10Mass,
		PM1CountCm3:         value.PM1Count,
		PM25CountCm3:        value.PM25Count,
		PM4CountCm3:         value.PM4Count,
		PM10CountCm3:        value.PM10Count,
		TypicalParticleSize: value.TypicalParticleSize,
		TemperatureC:        value.Temperature,
		HumidityRel:         value.Humidity,
		SupplyVoltageV:      value.SupplyVoltage,
	}
}
