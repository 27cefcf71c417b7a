package matching

import "fmt"

// UnmatchedStatus marks source rows no pass could match.
const UnmatchedStatus = "未匹配"

// AuditColumns is the fixed output projection.
var AuditColumns = []string{ColOrderID, ColGuestName, ColCheckin, ColCheckout, ColRoomNumber, ColStatus}

type ResultRow struct {
	OrderID      string `json:"order_id"`
	GuestName    string `json:"guest_name"`
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date"`
	RoomNumber   string `json:"room_number"`
	Status       string `json:"status"`
	MatchedBy    string `json:"matched_by"`
	BookingID    string `json:"booking_id,omitempty"`
	SourceRow    int    `json:"source_row"`
}

// Values returns the row in AuditColumns order.
func (r ResultRow) Values() []string {
	return []string{r.OrderID, r.GuestName, r.CheckinDate, r.CheckoutDate, r.RoomNumber, r.Status}
}

type Summary struct {
	Total          int `json:"total"`
	Matched        int `json:"matched"`
	Unmatched      int `json:"unmatched"`
	ByThirdParty   int `json:"by_third_party"`
	ByConfirmation int `json:"by_confirmation"`
	ByGuestName    int `json:"by_guest_name"`
}

func (s Summary) String() string {
	return fmt.Sprintf("订单共 %d 条，已匹配 %d 条（第三方预订号 %d，确认号 %d，姓名 %d），未匹配 %d 条",
		s.Total, s.Matched, s.ByThirdParty, s.ByConfirmation, s.ByGuestName, s.Unmatched)
}

type AuditResult struct {
	Rows      []ResultRow `json:"rows"`
	Unmatched []ResultRow `json:"unmatched"`
	Summary   Summary     `json:"summary"`
}

// Assemble backfills matched system values onto the source rows and projects
// them to AuditColumns. A system value only replaces the source value when it
// is non-empty.
func Assemble(source []SourceRecord, system []SystemRecord, assignments []Assignment) *AuditResult {
	result := &AuditResult{
		Rows:      make([]ResultRow, 0, len(source)),
		Unmatched: make([]ResultRow, 0),
	}

	for _, a := range assignments {
		src := source[a.Source]
		row := ResultRow{
			OrderID:      src.OrderID,
			GuestName:    src.GuestName,
			CheckinDate:  src.CheckinDate,
			CheckoutDate: src.CheckoutDate,
			RoomNumber:   src.RoomNumber,
			Status:       UnmatchedStatus,
			MatchedBy:    a.Pass.String(),
			SourceRow:    src.Row,
		}

		if a.Matched() {
			sys := system[a.System]
			row.CheckoutDate = backfill(sys.CheckoutDate, row.CheckoutDate)
			row.RoomNumber = backfill(sys.RoomNumber, row.RoomNumber)
			row.Status = backfill(sys.Status, UnmatchedStatus)
			row.BookingID = sys.BookingID
			result.Summary.Matched++
			switch a.Pass {
			case PassThirdParty:
				result.Summary.ByThirdParty++
			case PassConfirmation:
				result.Summary.ByConfirmation++
			case PassGuestName:
				result.Summary.ByGuestName++
			}
		}

		result.Rows = append(result.Rows, row)
		if !a.Matched() {
			result.Unmatched = append(result.Unmatched, row)
		}
	}

	result.Summary.Total = len(result.Rows)
	result.Summary.Unmatched = len(result.Unmatched)
	return result
}

func backfill(systemValue, sourceValue string) string {
	if systemValue != "" {
		return systemValue
	}
	return sourceValue
}
