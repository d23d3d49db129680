package logistics

// FeePolicy computes the freight fee for an order. Amounts are centavos.
// Orders at or above the free threshold ship for free, everything else pays
// the flat fee.
type FeePolicy struct {
	FreeThreshold int64
	FlatFee       int64
}

// Fee returns the freight for the given items subtotal.
func (p FeePolicy) Fee(subtotal int64) int64 {
	if subtotal >= p.FreeThreshold {
		return 0
	}
	return p.FlatFee
}
