// Package units converts quantities and prices between the dry-matter (DM)
// and as-received bases using the as-received moisture fraction.
//
// Prices scale with the solid share: one tonne as received holds (1 - m)
// tonnes of dry matter, so a DM price multiplied by (1 - m) gives the price
// per as-received tonne. Masses move the other way.
package units

import (
	"fmt"
	"math"

	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidMoisture indicates a moisture fraction outside [0, 1).
var ErrInvalidMoisture = constError("invalid moisture fraction")

// ValidateMoisture checks that m lies in [0, 1).
func ValidateMoisture(m float64) error {
	if math.IsNaN(m) || m < 0 || m >= 1 {
		return fmt.Errorf("%w: %v is outside [0, 1)", ErrInvalidMoisture, m)
	}
	return nil
}

// ToAsReceived converts a DM price to the as-received basis.
func ToAsReceived(valueDM, moisture float64) (float64, error) {
	c, err := NewConverter(moisture)
	if err != nil {
		return 0, err
	}
	return c.PriceToAsReceived(valueDM), nil
}

// ToDryMatter converts an as-received price back to the DM basis.
func ToDryMatter(valueAsReceived, moisture float64) (float64, error) {
	c, err := NewConverter(moisture)
	if err != nil {
		return 0, err
	}
	return c.PriceToDryMatter(valueAsReceived), nil
}

// Converter holds a validated moisture fraction.
type Converter struct {
	moisture float64
}

// NewConverter validates the moisture fraction and returns a Converter.
func NewConverter(moisture float64) (Converter, error) {
	if err := ValidateMoisture(moisture); err != nil {
		return Converter{}, err
	}
	return Converter{moisture: moisture}, nil
}

// Unchecked returns a Converter for moisture without validating it. The
// moisture must already have passed ValidateMoisture; an out-of-range value
// is kept as given.
func Unchecked(moisture float64) Converter {
	return Converter{moisture: moisture}
}

// Moisture returns the as-received moisture fraction.
func (c Converter) Moisture() float64 {
	return c.moisture
}

// SolidFraction returns 1 - moisture.
func (c Converter) SolidFraction() float64 {
	return 1 - c.moisture
}

// PriceToAsReceived converts €/t DM to €/t as received.
func (c Converter) PriceToAsReceived(priceDM float64) float64 {
	return priceDM * c.SolidFraction()
}

// PriceToDryMatter converts €/t as received to €/t DM.
func (c Converter) PriceToDryMatter(priceAsReceived float64) float64 {
	return mathutil.SafeDiv(priceAsReceived, c.SolidFraction())
}

// MassToAsReceived converts t DM to t as received.
func (c Converter) MassToAsReceived(massDM float64) float64 {
	return mathutil.SafeDiv(massDM, c.SolidFraction())
}

// MassToDryMatter converts t as received to t DM.
func (c Converter) MassToDryMatter(massAsReceived float64) float64 {
	return massAsReceived * c.SolidFraction()
}
