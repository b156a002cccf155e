package data

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var productCategories = []string{"Airtime", "Financial Services", "Data", "Utility Bill", "Tv"}
var channels = []string{"Android", "Web", "USSD", "iOS"}
var pricingStrategies = []string{"0", "1", "2", "3", "4"}

type segment struct {
	txLow, txHigh       int
	valueLow, valueHigh float64
	daysBack            int
}

// Engagement tiers: dormant customers transact rarely and long ago, active
// customers often and recently. This is what gives the RFM clustering real
// structure to find.
var segments = []segment{
	{txLow: 1, txHigh: 3, valueLow: 20, valueHigh: 300, daysBack: 365},
	{txLow: 5, txHigh: 20, valueLow: 50, valueHigh: 1500, daysBack: 180},
	{txLow: 25, txHigh: 80, valueLow: 100, valueHigh: 5000, daysBack: 45},
}

// GenerateSyntheticTransactions writes n transaction rows spread over the
// given number of customers to a raw CSV at outPath.
func GenerateSyntheticTransactions(n, customers int, seed int64, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(RawColumns); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC().Truncate(24 * time.Hour)

	written := 0
	txID := 0
	for c := 0; written < n; c++ {
		customerID := "C" + strconv.Itoa(1000+c%customers)
		seg := segments[rng.Intn(len(segments))]
		count := seg.txLow + rng.Intn(seg.txHigh-seg.txLow+1)
		if written+count > n {
			count = n - written
		}

		// A customer mostly sticks to one category and one channel, which
		// makes the per-customer mode meaningful.
		homeCat := productCategories[rng.Intn(len(productCategories))]
		homeChan := channels[rng.Intn(len(channels))]
		homePricing := pricingStrategies[rng.Intn(len(pricingStrategies))]

		for i := 0; i < count; i++ {
			txID++
			cat := homeCat
			ch := homeChan
			if rng.Float64() < 0.15 {
				cat = productCategories[rng.Intn(len(productCategories))]
			}
			if rng.Float64() < 0.1 {
				ch = channels[rng.Intn(len(channels))]
			}

			value := seg.valueLow + rng.Float64()*(seg.valueHigh-seg.valueLow)
			amount := value
			if rng.Float64() < 0.1 {
				amount = -value
			}
			ts := now.AddDate(0, 0, -rng.Intn(seg.daysBack+1)).Add(time.Duration(rng.Intn(24)) * time.Hour)

			fraud := 0
			if rng.Float64() < 0.002 {
				fraud = 1
			}

			rec := []string{
				"T" + strconv.Itoa(txID),
				customerID,
				strconv.FormatFloat(value, 'f', 2, 64),
				strconv.FormatFloat(amount, 'f', 2, 64),
				ts.Format(time.RFC3339),
				cat,
				ch,
				homePricing,
				strconv.Itoa(fraud),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		written += count
	}
	return nil
}
