package utils

import (
	"fmt"
	"math/rand"
)

// BookingIDDigits is the length of the numeric suffix in a booking identifier
const BookingIDDigits = 5

// GenerateBookingID returns a human-readable booking identifier of the
// form SD-NNNNN with a fresh random numeric suffix per call. Collisions
// are possible and not checked against the ledger.
func GenerateBookingID() string {
	max := 1
	for i := 0; i < BookingIDDigits; i++ {
		max *= 10
	}
	return fmt.Sprintf("SD-%0*d", BookingIDDigits, rand.Intn(max))
}
