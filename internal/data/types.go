package data

import "time"

type Transaction struct {
	TransactionID   string    `json:"transaction_id"`
	CustomerID      string    `json:"customer_id"`
	Value           float64   `json:"value"`
	Amount          float64   `json:"amount"`
	StartTime       time.Time `json:"transaction_start_time"`
	ProductCategory string    `json:"product_category"`
	ChannelID       string    `json:"channel_id"`
	PricingStrategy string    `json:"pricing_strategy"`
	FraudResult     int       `json:"fraud_result"`
}

// SchemaError reports a required column that is missing from the input or a
// field whose raw value cannot be parsed into its expected type.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema: column " + e.Column + ": " + e.Reason
}
