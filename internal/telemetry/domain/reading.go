package domain

import "time"

// Reading is one particulate-sensor sample. Every measurement channel is
// optional: the origin may omit any of them, and absence is kept as nil all
// the way to the API (never coerced to zero).
type Reading struct {
	// SequenceID is assigned by the store on append. It carries no meaning
	// beyond storage ordering and tie-breaking equal timestamps.
	SequenceID uint64
	// ReceivedAt is the origin-assigned delivery timestamp and the logical
	// ordering key. It is never zero for a persisted reading.
	ReceivedAt time.Time

	PM1Mass  *float64 // μg/m³
	PM25Mass *float64 // μg/m³
	PM4Mass  *float64 // μg/m³
	PM10Mass *float64 // μg/m³

	PM1Count  *float64 // particles/cm³
	PM25Count *float64 // particles/cm³
	PM4Count  *float64 // particles/cm³
	PM10Count *float64 // particles/cm³

	TypicalParticleSize *float64 // μm
	Temperature         *float64 // °C
	Humidity            *float64 // relative %
	SupplyVoltage       *float64 // V
}
