package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesab/hesab/internal/calendar"
)

func TestSeedFileIsValid(t *testing.T) {
	data, err := loadSeed("seed.yaml")
	require.NoError(t, err)

	assert.Equal(t, "USD", data.Settings.Currency)
	require.NotEmpty(t, data.Categories)

	names := map[string]bool{}
	for _, c := range data.Categories {
		names[c.Name] = true
		assert.Contains(t, []string{"EXPENSE", "INCOME"}, c.Type, c.Name)
	}
	for _, tx := range data.Transactions {
		assert.True(t, names[tx.Category], tx.Category)
		_, err := calendar.ParseDate(tx.OccurredOn, calendar.Gregorian)
		assert.NoError(t, err, tx.OccurredOn)
	}
}
