/*
Package fees computes customer charge amounts and platform/instructor
revenue splits for course purchases.

All amounts are integer minor currency units (cents). The calculator is
pure and stateless: it reads only its immutable Config and is safe to
call concurrently from any number of request handlers.

Two operations form the whole surface:

	calc := fees.NewCalculator(fees.Config{
	    PlatformFeePercent:     15,
	    ProcessorPercentFee:    2.9,
	    ProcessorFixedFeeCents: 30,
	})

	// What the customer pays so the processor's cut leaves the base price.
	charge, err := calc.ChargeAmount(course.Price)

	// How the charged amount divides between platform and instructor.
	split, err := calc.SplitFees(charge)

SplitFees guarantees split.PlatformShare + split.InstructorShare equals
the charge exactly for every valid input; rounding residue lands in the
instructor share. Rounding everywhere is half-away-from-zero
(math.Round).

Every money path in the application (checkout creation, webhook
settlement, purchase verification) must take its numbers from this
package rather than re-deriving them locally.
*/
package fees
