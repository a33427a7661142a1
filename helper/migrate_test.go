package helper_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutter/internal/domains/booking/lifecycle"
)

const initMigration = "../migrations/postgres/000001_init.up.sql"

func tableDefinition(t *testing.T, table string) string {
	t.Helper()

	raw, err := os.ReadFile(initMigration)
	require.NoError(t, err)

	sql := string(raw)
	start := strings.Index(sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
	require.GreaterOrEqual(t, start, 0, "table %s not found", table)

	end := strings.Index(sql[start:], ");")
	require.Greater(t, end, 0)

	return sql[start : start+end]
}

func TestInitMigration_BookingStatus(t *testing.T) {
	definition := tableDefinition(t, "bookings")

	statusColumn := regexp.MustCompile(`(?s)status VARCHAR\(32\) NOT NULL DEFAULT '([A-Z_]+)' CHECK \(status IN \((.*?)\)\)`)
	match := statusColumn.FindStringSubmatch(definition)
	require.Len(t, match, 3, "bookings.status must carry a default and a CHECK")

	assert.Equal(t, string(lifecycle.StatusBookingCreated), match[1])

	allowed := regexp.MustCompile(`'([A-Z_]+)'`).FindAllStringSubmatch(match[2], -1)
	values := make([]string, 0, len(allowed))

	for _, value := range allowed {
		values = append(values, value[1])
	}

	expected := make([]string, 0, len(lifecycle.All()))
	for _, status := range lifecycle.All() {
		expected = append(expected, string(status))
	}

	assert.ElementsMatch(t, expected, values)
}

func TestInitMigration_MoneyAndFilesOutliveBookings(t *testing.T) {
	bookingRef := regexp.MustCompile(`booking_id UUID NOT NULL REFERENCES bookings \(id\) ON DELETE ([A-Z ]+),`)

	for _, table := range []string{"payments", "deliverables"} {
		t.Run(table, func(t *testing.T) {
			match := bookingRef.FindStringSubmatch(tableDefinition(t, table))
			require.Len(t, match, 2)
			assert.Equal(t, "RESTRICT", match[1])
		})
	}
}
