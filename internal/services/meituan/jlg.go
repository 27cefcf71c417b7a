package meituan

import (
	"regexp"
	"strings"

	"ota-reconciliation-backend/internal/services/matching"
)

const (
	ColStatusLabel = "状态2"
	ColJLGNumber   = "JLG号码"
)

// Columns is the lookup result projection.
var Columns = []string{
	matching.ColGuestName, matching.ColStatus, ColStatusLabel, matching.ColRoomNumber,
	matching.ColCheckin, matching.ColCheckout, matching.ColBookingID, ColJLGNumber,
}

var jlgRe = regexp.MustCompile(`\(JLG\)(\d+)`)

// ExtractJLGNumbers returns the digits following each "(JLG)" marker,
// de-duplicated in first-seen order.
func ExtractJLGNumbers(text string) []string {
	var numbers []string
	seen := make(map[string]struct{})
	for _, m := range jlgRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		numbers = append(numbers, m[1])
	}
	return numbers
}

// StatusLabel maps a PMS status code to its display label.
func StatusLabel(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "R":
		return "预定成功"
	case "I":
		return "在住"
	case "D", "S", "O":
		return "离店"
	case "X":
		return "无效"
	default:
		return "未知状态"
	}
}

type LookupRow struct {
	GuestName   string `json:"guest_name"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	RoomNumber  string `json:"room_number"`
	Checkin     string `json:"checkin_date"`
	Checkout    string `json:"checkout_date"`
	BookingID   string `json:"booking_id"`
	JLGNumber   string `json:"jlg_number"`
}

// Values returns the row in Columns order.
func (r LookupRow) Values() []string {
	return []string{r.GuestName, r.Status, r.StatusLabel, r.RoomNumber, r.Checkin, r.Checkout, r.BookingID, r.JLGNumber}
}

type LookupResult struct {
	Rows     []LookupRow `json:"rows"`
	NotFound []string    `json:"not_found"`
}

// Lookup finds, for each number, the first PMS row whose booking id equals it.
func Lookup(system *matching.Table, numbers []string) (*LookupResult, error) {
	if err := matching.Resolve(system, matching.MeituanSystemAliases); err != nil {
		return nil, err
	}

	var (
		bookingCol  = system.Column(matching.ColBookingID)
		nameCol     = system.Column(matching.ColGuestName)
		statusCol   = system.Column(matching.ColStatus)
		roomCol     = system.Column(matching.ColRoomNumber)
		checkinCol  = system.Column(matching.ColCheckin)
		checkoutCol = system.Column(matching.ColCheckout)
	)

	index := make(map[string]int, system.Len())
	for i := range system.Rows {
		id := matching.NormalizeKey(system.Cell(i, bookingCol))
		if id == "" {
			continue
		}
		if _, ok := index[id]; !ok {
			index[id] = i
		}
	}

	result := &LookupResult{Rows: make([]LookupRow, 0, len(numbers)), NotFound: make([]string, 0)}
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		i, ok := index[n]
		if !ok {
			result.NotFound = append(result.NotFound, n)
			continue
		}
		row := LookupRow{
			GuestName:  system.Cell(i, nameCol),
			RoomNumber: system.Cell(i, roomCol),
			Checkin:    matching.FormatDate(system.Cell(i, checkinCol)),
			Checkout:   matching.FormatDate(system.Cell(i, checkoutCol)),
			BookingID:  system.Cell(i, bookingCol),
			JLGNumber:  n,
		}
		if status := system.Cell(i, statusCol); status != "" {
			row.Status = strings.ToUpper(status)
			row.StatusLabel = StatusLabel(status)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
