package matching

// SystemRecord is one PMS reservation row after column resolution.
type SystemRecord struct {
	Row                  int
	BookingID            string
	ThirdPartyBookingID  string
	NormalizedThirdParty string
	GuestName            string
	CheckinDate          string
	CheckoutDate         string
	RoomNumber           string
	Status               string
}

// SourceRecord is one OTA order row after column resolution.
type SourceRecord struct {
	Row                    int
	OrderID                string
	ConfirmationNumber     string
	NormalizedConfirmation string
	GuestName              string
	CheckinDate            string
	CheckoutDate           string
	RoomNumber             string
}

// Resolve checks for rows, then resolves columns. Both failures are terminal.
func Resolve(t *Table, aliases AliasTable) error {
	if err := checkRows(t); err != nil {
		return err
	}
	if missing := t.ResolveColumns(aliases); len(missing) > 0 {
		return &SchemaError{Table: t.label(), Missing: missing}
	}
	return nil
}

func checkRows(t *Table) error {
	if t == nil {
		return &EmptyInputError{Table: "table"}
	}
	if t.Len() == 0 {
		return &EmptyInputError{Table: t.label()}
	}
	return nil
}

// BuildSystemTable types the PMS export. Exact duplicates on
// (booking id, guest name, normalized third-party id) keep their first row.
func BuildSystemTable(t *Table, aliases AliasTable) ([]SystemRecord, error) {
	if err := Resolve(t, aliases); err != nil {
		return nil, err
	}

	var (
		bookingCol    = t.Column(ColBookingID)
		thirdPartyCol = t.Column(ColThirdPartyBookingID)
		nameCol       = t.Column(ColGuestName)
		checkinCol    = t.Column(ColCheckin)
		checkoutCol   = t.Column(ColCheckout)
		roomCol       = t.Column(ColRoomNumber)
		statusCol     = t.Column(ColStatus)
	)

	type dedupeKey struct{ booking, name, thirdParty string }
	seen := make(map[dedupeKey]struct{}, t.Len())
	records := make([]SystemRecord, 0, t.Len())

	for i := range t.Rows {
		rec := SystemRecord{
			Row:                 i,
			BookingID:           NormalizeKey(t.Cell(i, bookingCol)),
			ThirdPartyBookingID: t.Cell(i, thirdPartyCol),
			GuestName:           NormalizeKey(t.Cell(i, nameCol)),
			CheckinDate:         FormatDate(t.Cell(i, checkinCol)),
			CheckoutDate:        FormatDate(t.Cell(i, checkoutCol)),
			RoomNumber:          t.Cell(i, roomCol),
			Status:              t.Cell(i, statusCol),
		}
		rec.NormalizedThirdParty = NormalizeThirdParty(rec.ThirdPartyBookingID)

		key := dedupeKey{rec.BookingID, rec.GuestName, rec.NormalizedThirdParty}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}

// BuildSourceTable types the OTA export.
func BuildSourceTable(t *Table, aliases AliasTable) ([]SourceRecord, error) {
	if err := Resolve(t, aliases); err != nil {
		return nil, err
	}

	var (
		orderCol    = t.Column(ColOrderID)
		confirmCol  = t.Column(ColConfirmationNumber)
		nameCol     = t.Column(ColSourceGuestName)
		checkinCol  = t.Column(ColCheckin)
		checkoutCol = t.Column(ColCheckout)
		roomCol     = t.Column(ColRoomNumber)
	)

	records := make([]SourceRecord, 0, t.Len())
	for i := range t.Rows {
		rec := SourceRecord{
			Row:                i,
			OrderID:            NormalizeKey(t.Cell(i, orderCol)),
			ConfirmationNumber: t.Cell(i, confirmCol),
			GuestName:          NormalizeKey(t.Cell(i, nameCol)),
			CheckinDate:        FormatDate(t.Cell(i, checkinCol)),
			CheckoutDate:       FormatDate(t.Cell(i, checkoutCol)),
			RoomNumber:         t.Cell(i, roomCol),
		}
		rec.NormalizedConfirmation = NormalizeConfirmation(rec.ConfirmationNumber)
		records = append(records, rec)
	}
	return records, nil
}
