package matching

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRecord is one row of a date comparison input. Price is optional.
type DateRecord struct {
	Row       int
	BookingID string
	Checkin   time.Time
	Checkout  time.Time
	Price     decimal.NullDecimal
}

// DateColumns names the canonical columns of one side of a date comparison.
type DateColumns struct {
	BookingID string
	Checkin   string
	Checkout  string
	Price     string
	Layout    string
}

var (
	SystemDateColumns = DateColumns{
		BookingID: ColBookingID,
		Checkin:   ColCheckin,
		Checkout:  ColCheckout,
		Price:     ColRate,
		Layout:    SystemDateLayout,
	}
	OTADateColumns = DateColumns{
		BookingID: ColOTABookingID,
		Checkin:   ColOTACheckin,
		Checkout:  ColOTACheckout,
		Price:     ColOTARate,
	}
)

// BuildDateTable resolves and types one side of a date comparison. Rows with
// an empty id or an unparseable date are dropped.
func BuildDateTable(t *Table, aliases AliasTable, cols DateColumns) ([]DateRecord, error) {
	if err := Resolve(t, aliases); err != nil {
		return nil, err
	}

	idCol, inCol, outCol, priceCol := t.Column(cols.BookingID), t.Column(cols.Checkin), t.Column(cols.Checkout), t.Column(cols.Price)

	records := make([]DateRecord, 0, t.Len())
	for i := range t.Rows {
		id := strings.ToUpper(NormalizeKey(t.Cell(i, idCol)))
		if id == "" {
			continue
		}
		checkin, ok := ParseDate(t.Cell(i, inCol), cols.Layout)
		if !ok {
			continue
		}
		checkout, ok := ParseDate(t.Cell(i, outCol), cols.Layout)
		if !ok {
			continue
		}
		rec := DateRecord{Row: i, BookingID: id, Checkin: checkin, Checkout: checkout}
		if raw := strings.ReplaceAll(t.Cell(i, priceCol), ",", ""); raw != "" {
			if d, err := decimal.NewFromString(raw); err == nil {
				rec.Price = decimal.NullDecimal{Decimal: d, Valid: true}
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

type DateMismatch struct {
	BookingID       string `json:"booking_id"`
	SystemCheckin   string `json:"system_checkin"`
	SystemCheckout  string `json:"system_checkout"`
	OTACheckin      string `json:"ota_checkin"`
	OTACheckout     string `json:"ota_checkout"`
	SystemPrice     string `json:"system_price,omitempty"`
	OTAPrice        string `json:"ota_price,omitempty"`
	CheckinDiffers  bool   `json:"checkin_differs"`
	CheckoutDiffers bool   `json:"checkout_differs"`
	PriceDiffers    bool   `json:"price_differs"`
}

type DateNotFound struct {
	BookingID      string `json:"booking_id"`
	SystemCheckin  string `json:"system_checkin"`
	SystemCheckout string `json:"system_checkout"`
}

type DateComparison struct {
	Mismatches []DateMismatch `json:"mismatches"`
	NotFound   []DateNotFound `json:"not_found"`
	Compared   int            `json:"compared"`
}

// CompareDates joins primary to secondary on booking id. A secondary id that
// repeats keeps its first row. Primary rows with no counterpart are reported,
// never retried by another key.
func CompareDates(primary, secondary []DateRecord) *DateComparison {
	index := make(map[string]*DateRecord, len(secondary))
	for i := range secondary {
		if _, exists := index[secondary[i].BookingID]; !exists {
			index[secondary[i].BookingID] = &secondary[i]
		}
	}

	result := &DateComparison{
		Mismatches: make([]DateMismatch, 0),
		NotFound:   make([]DateNotFound, 0),
	}

	for _, p := range primary {
		s, ok := index[p.BookingID]
		if !ok {
			result.NotFound = append(result.NotFound, DateNotFound{
				BookingID:      p.BookingID,
				SystemCheckin:  formatDay(p.Checkin),
				SystemCheckout: formatDay(p.Checkout),
			})
			continue
		}
		result.Compared++

		m := DateMismatch{
			BookingID:       p.BookingID,
			SystemCheckin:   formatDay(p.Checkin),
			SystemCheckout:  formatDay(p.Checkout),
			OTACheckin:      formatDay(s.Checkin),
			OTACheckout:     formatDay(s.Checkout),
			CheckinDiffers:  !p.Checkin.Equal(s.Checkin),
			CheckoutDiffers: !p.Checkout.Equal(s.Checkout),
		}
		if p.Price.Valid && s.Price.Valid {
			m.SystemPrice = p.Price.Decimal.String()
			m.OTAPrice = s.Price.Decimal.String()
			m.PriceDiffers = !p.Price.Decimal.Equal(s.Price.Decimal)
		}
		if m.CheckinDiffers || m.CheckoutDiffers || m.PriceDiffers {
			result.Mismatches = append(result.Mismatches, m)
		}
	}
	return result
}

func formatDay(t time.Time) string { return t.Format("2006-01-02") }
