package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetreport/internal/core"
)

func TestAnalyze(t *testing.T) {
	current := []core.Transaction{
		txn("1", "2025-01-13", -140000, "Landlord", "Rent"),
	}
	previous := []core.Transaction{
		txn("0", "2025-01-06", -100000, "Landlord", "Rent"),
	}

	res := Analyze(current, previous, map[string]int64{"Rent": 500000})
	require.NotNil(t, res.Previous)
	assert.Equal(t, int64(100000), res.Previous.TotalExpense)
	assert.Equal(t, []AnomalyType{AnomalyLargeTransaction, AnomalySpike, AnomalyCategorySpike}, typesOf(res.Anomalies))
	assert.Equal(t, HealthCritical, res.Health.Status)

	res = Analyze(current, nil, nil)
	assert.Nil(t, res.Previous)
	assert.Equal(t, []AnomalyType{AnomalyLargeTransaction}, typesOf(res.Anomalies))
	assert.Equal(t, HealthUnknown, res.Health.Status)

	// an empty but fetched previous week still counts as a comparison period
	res = Analyze(current, []core.Transaction{}, nil)
	require.NotNil(t, res.Previous)
	assert.False(t, res.Previous.HasData())
}
