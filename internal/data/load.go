package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// RawColumns is the required header of a raw transaction CSV.
var RawColumns = []string{
	"TransactionId", "CustomerId", "Value", "Amount", "TransactionStartTime",
	"ProductCategory", "ChannelId", "PricingStrategy", "FraudResult",
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func LoadTransactionsCSV(path string) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseTransactions(rows)
}

// ParseTransactions converts a header-plus-rows CSV table into transactions.
// Columns may appear in any order; the header decides the mapping.
func ParseTransactions(rows [][]string) ([]Transaction, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Column: RawColumns[0], Reason: "missing header"}
	}
	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[name] = i
	}
	for _, name := range RawColumns {
		if _, ok := idx[name]; !ok {
			return nil, &SchemaError{Column: name, Reason: "missing"}
		}
	}

	txs := make([]Transaction, 0, len(rows)-1)
	for _, row := range rows[1:] {
		value, err := strconv.ParseFloat(row[idx["Value"]], 64)
		if err != nil {
			return nil, &SchemaError{Column: "Value", Reason: "not a number: " + row[idx["Value"]]}
		}
		amount, err := strconv.ParseFloat(row[idx["Amount"]], 64)
		if err != nil {
			return nil, &SchemaError{Column: "Amount", Reason: "not a number: " + row[idx["Amount"]]}
		}
		ts, err := parseTime(row[idx["TransactionStartTime"]])
		if err != nil {
			return nil, &SchemaError{Column: "TransactionStartTime", Reason: "bad timestamp: " + row[idx["TransactionStartTime"]]}
		}
		fraud, err := strconv.Atoi(row[idx["FraudResult"]])
		if err != nil {
			return nil, &SchemaError{Column: "FraudResult", Reason: "not an integer: " + row[idx["FraudResult"]]}
		}
		txs = append(txs, Transaction{
			TransactionID:   row[idx["TransactionId"]],
			CustomerID:      row[idx["CustomerId"]],
			Value:           value,
			Amount:          amount,
			StartTime:       ts,
			ProductCategory: row[idx["ProductCategory"]],
			ChannelID:       row[idx["ChannelId"]],
			PricingStrategy: row[idx["PricingStrategy"]],
			FraudResult:     fraud,
		})
	}
	return txs, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
