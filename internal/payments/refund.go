package payments

// Refund describes the compensating payment produced by a cancellation.
type Refund struct {
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// RefundAmount computes how much to refund on cancellation. An explicit
// amount, when given, overrides the computed totalPaid minus fee. The raw
// computation can go negative when the fee exceeds what was paid; clampFloor
// keeps the result at zero in that case.
func RefundAmount(totalPaid, cancellationFee int64, explicit *int64, clampFloor bool) int64 {
	if explicit != nil {
		return *explicit
	}
	amount := totalPaid - cancellationFee
	if clampFloor && amount < 0 {
		return 0
	}
	return amount
}
