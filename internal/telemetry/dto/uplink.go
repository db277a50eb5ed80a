package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"feinstaub-server/internal/telemetry/domain"
)

var (
	// ErrMalformedPayload means the message body is not a parseable envelope.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMissingPayload means the envelope carries no decoded measurement
	// object. Such messages are dropped without retry: the broker would
	// only redeliver the same unusable body.
	ErrMissingPayload = errors.New("missing decoded payload")
	// ErrMissingTimestamp means the envelope has no received_at timestamp,
	// which is the one mandatory field of a reading.
	ErrMissingTimestamp = errors.New("missing received_at timestamp")
)

// DecodeUplink validates a raw broker message and flattens it into a Reading.
// It is a pure transform: measurement values are copied verbatim when present
// and numeric, left nil otherwise. No unit conversion or rounding happens
// here; display rounding is a presentation concern.
func DecodeUplink(payload []byte) (domain.Reading, error) {
	var envelop Envelop
	if err := json.Unmarshal(payload, &envelop); err != nil {
		return domain.Reading{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	decoded := envelop.UplinkMessage.DecodedPayload
	if len(decoded) == 0 {
		return domain.Reading{}, ErrMissingPayload
	}

	if envelop.ReceivedAt.IsZero() {
		return domain.Reading{}, ErrMissingTimestamp
	}

	return domain.Reading{
		ReceivedAt:          envelop.ReceivedAt,
		PM1Mass:             numericField(decoded, "pm1_mass_ugm3"),
		PM25Mass:            numericField(decoded, "pm2_5_mass_ugm3"),
		PM4Mass:             numericField(decoded, "pm4_mass_ugm3"),
		PM10Mass:            numericField(decoded, "pm10_mass_ugm3"),
		PM1Count:            numericField(decoded, "pm1_count_cm3"),
		PM25Count:           numericField(decoded, "pm2_5_count_cm3"),
		PM4Count:            numericField(decoded, "pm4_count_cm3"),
		PM10Count:           numericField(decoded, "pm10_count_cm3"),
		TypicalParticleSize: numericField(decoded, "typical_particle_size"),
		Temperature:         numericField(decoded, "temperature_C"),
		Humidity:            numericField(decoded, "humidity_rel"),
		SupplyVoltage:       numericField(decoded, "supply_voltage_V"),
	}, nil
}

// numericField extracts a JSON number from the decoded payload. Anything
// else, including a missing key, maps to nil.
func numericField(decoded map[string]any, key string) *float64 {
	value, ok := decoded[key]
	if !ok {
		return nil
	}

	number, ok := value.(float64)
	if !ok {
		return nil
	}

	return &number
}
