package fees

import "math"

// Config holds the fee constants, read once at startup and immutable
// for the process lifetime.
type Config struct {
	// PlatformFeePercent is the percentage of the base price retained
	// by the platform (0-100).
	PlatformFeePercent int64
	// ProcessorPercentFee is the payment processor's published
	// percentage fee, e.g. 2.9.
	ProcessorPercentFee float64
	// ProcessorFixedFeeCents is the processor's fixed per-transaction
	// fee in minor units, e.g. 30.
	ProcessorFixedFeeCents int64
}

// DefaultConfig returns the standard fee constants.
func DefaultConfig() Config {
	return Config{
		PlatformFeePercent:     15,
		ProcessorPercentFee:    2.9,
		ProcessorFixedFeeCents: 30,
	}
}

// Split is the division of a charged amount between the platform and
// the course instructor. PlatformShare + InstructorShare always equals
// the charge it was computed from.
type Split struct {
	PlatformShare   int64 `json:"platform_share"`
	InstructorShare int64 `json:"instructor_share"`
}

// Calculator computes charge amounts and revenue splits.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given fee constants.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Config returns the calculator's fee constants.
func (c *Calculator) Config() Config {
	return c.cfg
}

// ChargeAmount returns what the customer must be charged so that, after
// the processor deducts its percentage plus fixed fee, the remainder
// covers basePrice. Processor fees are passed through to the customer.
//
// Solves charge - charge*p/100 - fixed = basePrice directly:
//
//	charge = round((basePrice + fixed) / (1 - p/100))
//
// Rounded half-away-from-zero; non-decreasing in basePrice.
func (c *Calculator) ChargeAmount(basePrice int64) (int64, error) {
	if basePrice < 0 {
		return 0, ErrInvalidAmount
	}

	gross := (float64(basePrice) + float64(c.cfg.ProcessorFixedFeeCents)) /
		(1 - c.cfg.ProcessorPercentFee/100)
	return int64(math.Round(gross)), nil
}

// SplitFees divides a fee-inclusive charge between platform and
// instructor. Taking PlatformFeePercent of the charge directly would
// overcount: the charge already carries the processor's fee for the
// whole transaction. Instead the implied pre-fee base price is
// recovered, the platform fee is taken on that, and the processor's fee
// is shared in proportion to each party's slice of the base price. The
// instructor share is the exact remainder, so the two shares always sum
// to the charge.
func (c *Calculator) SplitFees(chargeAmount int64) (Split, error) {
	if chargeAmount < 0 {
		return Split{}, ErrInvalidAmount
	}

	processorFee := math.Round(float64(chargeAmount)*c.cfg.ProcessorPercentFee/100) +
		float64(c.cfg.ProcessorFixedFeeCents)

	impliedBase := int64(math.Round(
		float64(chargeAmount)/(1+c.cfg.ProcessorPercentFee/100) -
			float64(c.cfg.ProcessorFixedFeeCents)))

	// Charges at or below the processor's fixed fee imply no base price
	// at all; the platform takes nothing rather than dividing by zero.
	if impliedBase <= 0 {
		return Split{PlatformShare: 0, InstructorShare: chargeAmount}, nil
	}

	platformBaseFee := int64(math.Round(
		float64(impliedBase) * float64(c.cfg.PlatformFeePercent) / 100))

	platformProcessorShare := int64(math.Round(
		processorFee * float64(platformBaseFee) / float64(impliedBase)))

	platformShare := platformBaseFee + platformProcessorShare

	return Split{
		PlatformShare:   platformShare,
		InstructorShare: chargeAmount - platformShare,
	}, nil
}
