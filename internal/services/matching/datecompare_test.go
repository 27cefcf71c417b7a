package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareDates(t *testing.T) {
	system := &Table{
		Name:    "system",
		Headers: []string{"预订号", "到达", "离开", "房价"},
		Rows: [][]string{
			{"a100", "251001", "251003", "1,280.00"},
			{"A200", "251001", "251002", "500"},
			{"A300", "251005", "251006", "300"},
			{"A400", "not a date", "251006", "300"},
			{"", "251005", "251006", "300"},
			{"A500", "251007", "251008", ""},
		},
	}
	ota := &Table{
		Name:    "ota",
		Headers: []string{"预定号", "入住日期", "离店日期", "房费"},
		Rows: [][]string{
			{"A100", "2025/10/01", "2025/10/03", "1280"},
			{"A200", "2025/10/01", "2025/10/04", "500"},
			{"A200", "2025/10/01", "2025/10/02", "500"},
			{"A500", "2025/10/07", "2025/10/08", "999"},
		},
	}

	primary, err := BuildDateTable(system, DateSystemAliases, SystemDateColumns)
	require.NoError(t, err)
	require.Len(t, primary, 4)
	assert.Equal(t, "A100", primary[0].BookingID)
	assert.True(t, primary[0].Price.Valid)
	assert.False(t, primary[3].Price.Valid)

	secondary, err := BuildDateTable(ota, DateOTAAliases, OTADateColumns)
	require.NoError(t, err)

	result := CompareDates(primary, secondary)

	assert.Equal(t, 3, result.Compared)
	require.Len(t, result.Mismatches, 1)
	m := result.Mismatches[0]
	assert.Equal(t, "A200", m.BookingID)
	assert.False(t, m.CheckinDiffers)
	assert.True(t, m.CheckoutDiffers)
	assert.Equal(t, "2025-10-02", m.SystemCheckout)
	assert.Equal(t, "2025-10-04", m.OTACheckout)

	require.Len(t, result.NotFound, 1)
	assert.Equal(t, DateNotFound{BookingID: "A300", SystemCheckin: "2025-10-05", SystemCheckout: "2025-10-06"}, result.NotFound[0])
}

func TestCompareDates_PriceDiffers(t *testing.T) {
	primary := []DateRecord{{BookingID: "X"}}
	secondary := []DateRecord{{BookingID: "X"}}
	primary[0].Price.Valid, primary[0].Price.Decimal = true, mustDecimal(t, "100.5")
	secondary[0].Price.Valid, secondary[0].Price.Decimal = true, mustDecimal(t, "100.50")

	assert.Empty(t, CompareDates(primary, secondary).Mismatches)

	secondary[0].Price.Decimal = mustDecimal(t, "101")
	result := CompareDates(primary, secondary)
	require.Len(t, result.Mismatches, 1)
	assert.True(t, result.Mismatches[0].PriceDiffers)
	assert.Equal(t, "101", result.Mismatches[0].OTAPrice)
}

func TestBuildDateTable_MissingColumns(t *testing.T) {
	_, err := BuildDateTable(&Table{Headers: []string{"预订号"}, Rows: [][]string{{"1"}}}, DateSystemAliases, SystemDateColumns)
	assert.ErrorIs(t, err, ErrSchema)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
