package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSyntheticTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "transactions.csv")
	require.NoError(t, GenerateSyntheticTransactions(500, 60, 42, path))

	txs, err := LoadTransactionsCSV(path)
	require.NoError(t, err)
	require.Len(t, txs, 500)

	customers := map[string]bool{}
	for _, tx := range txs {
		assert.NotEmpty(t, tx.CustomerID)
		assert.False(t, tx.StartTime.IsZero())
		assert.Greater(t, tx.Value, 0.0)
		customers[tx.CustomerID] = true
	}
	assert.Greater(t, len(customers), 1)
	assert.LessOrEqual(t, len(customers), 60)
}

func TestGenerateSyntheticTransactions_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, GenerateSyntheticTransactions(200, 20, 7, a))
	require.NoError(t, GenerateSyntheticTransactions(200, 20, 7, b))

	ta, err := LoadTransactionsCSV(a)
	require.NoError(t, err)
	tb, err := LoadTransactionsCSV(b)
	require.NoError(t, err)
	assert.Equal(t, ta, tb)
}
