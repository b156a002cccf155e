package features

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"creditrisk/internal/data"
)

// ProfileColumns is the fixed column order of the processed customer feature
// table. Readers and writers both go through it; downstream consumers rely on
// the order being stable.
var ProfileColumns = []string{
	"CustomerId", "Total_Spend", "Avg_Transaction_Value", "Transaction_Variability",
	"Transaction_Frequency", "Recency", "FraudResult_max",
	"ProductCategory", "ChannelId", "PricingStrategy", "Cluster", "is_high_risk",
}

func WriteProfilesCSV(profiles []CustomerProfile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ProfileColumns); err != nil {
		return err
	}
	for _, p := range profiles {
		rec := []string{
			p.CustomerID,
			strconv.FormatFloat(p.TotalSpend, 'f', -1, 64),
			strconv.FormatFloat(p.AvgTransactionValue, 'f', -1, 64),
			strconv.FormatFloat(p.TransactionVariability, 'f', -1, 64),
			strconv.Itoa(p.TransactionFrequency),
			strconv.Itoa(p.Recency),
			strconv.Itoa(p.FraudResult),
			p.ProductCategory,
			p.ChannelID,
			p.PricingStrategy,
			strconv.Itoa(p.Cluster),
			strconv.Itoa(p.IsHighRisk),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadProfilesCSV(path string) ([]CustomerProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &data.SchemaError{Column: ProfileColumns[0], Reason: "missing header"}
	}
	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[name] = i
	}
	for _, name := range ProfileColumns {
		if _, ok := idx[name]; !ok {
			return nil, &data.SchemaError{Column: name, Reason: "missing"}
		}
	}

	profiles := make([]CustomerProfile, 0, len(rows)-1)
	for _, row := range rows[1:] {
		p := CustomerProfile{
			CustomerID:      row[idx["CustomerId"]],
			ProductCategory: row[idx["ProductCategory"]],
			ChannelID:       row[idx["ChannelId"]],
			PricingStrategy: row[idx["PricingStrategy"]],
		}
		var err error
		if p.TotalSpend, err = strconv.ParseFloat(row[idx["Total_Spend"]], 64); err != nil {
			return nil, &data.SchemaError{Column: "Total_Spend", Reason: "not a number"}
		}
		if p.AvgTransactionValue, err = strconv.ParseFloat(row[idx["Avg_Transaction_Value"]], 64); err != nil {
			return nil, &data.SchemaError{Column: "Avg_Transaction_Value", Reason: "not a number"}
		}
		if p.TransactionVariability, err = strconv.ParseFloat(row[idx["Transaction_Variability"]], 64); err != nil {
			return nil, &data.SchemaError{Column: "Transaction_Variability", Reason: "not a number"}
		}
		if p.TransactionFrequency, err = strconv.Atoi(row[idx["Transaction_Frequency"]]); err != nil {
			return nil, &data.SchemaError{Column: "Transaction_Frequency", Reason: "not an integer"}
		}
		if p.Recency, err = strconv.Atoi(row[idx["Recency"]]); err != nil {
			return nil, &data.SchemaError{Column: "Recency", Reason: "not an integer"}
		}
		if p.FraudResult, err = strconv.Atoi(row[idx["FraudResult_max"]]); err != nil {
			return nil, &data.SchemaError{Column: "FraudResult_max", Reason: "not an integer"}
		}
		if p.Cluster, err = strconv.Atoi(row[idx["Cluster"]]); err != nil {
			return nil, &data.SchemaError{Column: "Cluster", Reason: "not an integer"}
		}
		if p.IsHighRisk, err = strconv.Atoi(row[idx["is_high_risk"]]); err != nil {
			return nil, &data.SchemaError{Column: "is_high_risk", Reason: "not an integer"}
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
