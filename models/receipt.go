package models

// DeliveryOutcome is the result of one push attempt inside a fan-out
type DeliveryOutcome struct {
	UID         string `json:"uid"`
	DeviceToken string `json:"deviceToken"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// DeliveryReceipt is the aggregate outcome of one dispatch fan-out. It is
// returned to the caller, not persisted. Outcomes keeps one entry per
// recipient in registry order, so SuccessCount+FailureCount == len(Outcomes).
type DeliveryReceipt struct {
	DispatchID   string            `json:"dispatchId"`
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
	Outcomes     []DeliveryOutcome `json:"perRecipientOutcome"`
}
