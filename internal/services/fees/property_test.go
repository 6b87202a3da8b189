package fees

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: SplitFees conserves the charge exactly for any non-negative
// input: PlatformShare + InstructorShare == charge, always.
func TestSplitFeesConservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	calc := newTestCalculator()

	properties.Property("shares sum exactly to the charge", prop.ForAll(
		func(charge int64) bool {
			split, err := calc.SplitFees(charge)
			if err != nil {
				return false
			}
			return split.PlatformShare+split.InstructorShare == charge
		},
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t)
}

// Property: both shares are non-negative for any non-negative charge.
func TestSplitFeesNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	calc := newTestCalculator()

	properties.Property("neither share is negative", prop.ForAll(
		func(charge int64) bool {
			split, err := calc.SplitFees(charge)
			if err != nil {
				return false
			}
			return split.PlatformShare >= 0 && split.InstructorShare >= 0
		},
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t)
}

// Property: ChargeAmount is non-decreasing. A higher base price never
// produces a lower charge.
func TestChargeAmountMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	calc := newTestCalculator()

	properties.Property("charge is monotone in base price", prop.ForAll(
		func(a, b int64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			chargeLo, err := calc.ChargeAmount(lo)
			if err != nil {
				return false
			}
			chargeHi, err := calc.ChargeAmount(hi)
			if err != nil {
				return false
			}
			return chargeLo <= chargeHi
		},
		gen.Int64Range(0, 100_000_000),
		gen.Int64Range(0, 100_000_000),
	))

	properties.TestingRun(t)
}

// Property: both operations are deterministic. The same input always
// yields the same output.
func TestCalculatorDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	calc := newTestCalculator()

	properties.Property("repeat calls agree", prop.ForAll(
		func(amount int64) bool {
			c1, err1 := calc.ChargeAmount(amount)
			c2, err2 := calc.ChargeAmount(amount)
			if err1 != nil || err2 != nil || c1 != c2 {
				return false
			}
			s1, err1 := calc.SplitFees(amount)
			s2, err2 := calc.SplitFees(amount)
			return err1 == nil && err2 == nil && s1 == s2
		},
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t)
}
