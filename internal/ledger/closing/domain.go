package closing

// CloseResult reports the outcome of closing a period.
type CloseResult struct {
	PeriodID      int64   `json:"period_id"`
	TransactionID int64   `json:"transaction_id"`
	NetIncome     float64 `json:"net_income"`
}
