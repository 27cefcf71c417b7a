package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sourceHeaders = []string{"订单号", "确认号", "客人姓名", "到达", "离开", "房号"}
	systemHeaders = []string{"预订号", "第三方预定号", "姓名", "离开", "房号", "状态"}
)

func sourceTable(rows ...[]string) *Table {
	return &Table{Name: "source", Headers: append([]string(nil), sourceHeaders...), Rows: rows}
}

func systemTable(rows ...[]string) *Table {
	return &Table{Name: "system", Headers: append([]string(nil), systemHeaders...), Rows: rows}
}

func runAudit(t *testing.T, source, system *Table) *AuditResult {
	t.Helper()
	result, err := Audit(source, CtripSourceAliases, system, SystemAliases)
	require.NoError(t, err)
	return result
}

func TestAudit_ThirdPartyPass(t *testing.T) {
	result := runAudit(t,
		sourceTable([]string{"2025100100001234", "", "Zhang San", "2025-10-01", "2025-10-03", ""}),
		systemTable([]string{"998877", "2025100100001234R1", "Someone Else", "2025-10-03", "1203", "I"}),
	)

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, "1203", row.RoomNumber)
	assert.Equal(t, "I", row.Status)
	assert.Equal(t, PassThirdParty.String(), row.MatchedBy)
	assert.Equal(t, "998877", row.BookingID)
	assert.Empty(t, result.Unmatched)
}

func TestAudit_ConfirmationPass(t *testing.T) {
	result := runAudit(t,
		sourceTable([]string{"5550001", "CT-0098217(HK)", "Wang Wu", "2025-10-01", "2025-10-02", ""}),
		systemTable([]string{"0098217", "", "Nobody", "2025-10-02", "805", "R"}),
	)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, PassConfirmation.String(), result.Rows[0].MatchedBy)
	assert.Equal(t, "805", result.Rows[0].RoomNumber)
	assert.Equal(t, "R", result.Rows[0].Status)
}

func TestAudit_GuestNamePass(t *testing.T) {
	result := runAudit(t,
		sourceTable([]string{"111", "ABC", "Li Lei", "2025-10-01", "2025-10-02", ""}),
		systemTable([]string{"222", "333", " Li Lei ", "2025-10-02", "606", "I"}),
	)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, PassGuestName.String(), result.Rows[0].MatchedBy)
	assert.Equal(t, "606", result.Rows[0].RoomNumber)
}

func TestAudit_Unmatched(t *testing.T) {
	result := runAudit(t,
		sourceTable(
			[]string{"111", "", "Han Meimei", "2025-10-01", "2025-10-02", "301"},
			[]string{"112", "", "Lin Tao", "2025-10-01", "2025-10-02", ""},
		),
		systemTable([]string{"222", "333", "Li Lei", "2025-10-02", "606", "I"}),
	)

	require.Len(t, result.Rows, 2)
	require.Len(t, result.Unmatched, 2)
	assert.Equal(t, UnmatchedStatus, result.Rows[0].Status)
	assert.Equal(t, "301", result.Rows[0].RoomNumber)
	assert.Equal(t, "", result.Rows[1].RoomNumber)
	assert.Equal(t, PassNone.String(), result.Rows[1].MatchedBy)
	assert.Equal(t, Summary{Total: 2, Unmatched: 2}, result.Summary)
}

func TestAudit_EmptyInputBeforeSchema(t *testing.T) {
	// A schema-broken source with an empty system table reports the empty table.
	_, err := Audit(
		&Table{Name: "source", Headers: []string{"x"}, Rows: [][]string{{"1"}}}, CtripSourceAliases,
		&Table{Name: "system", Headers: systemHeaders}, SystemAliases,
	)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMatch_AtMostOneToOne(t *testing.T) {
	source := []SourceRecord{
		{OrderID: "A", GuestName: "Li Lei"},
		{OrderID: "A", GuestName: "Li Lei"},
		{OrderID: "A", GuestName: "Li Lei"},
	}
	system := []SystemRecord{
		{BookingID: "1", NormalizedThirdParty: "A", GuestName: "x"},
		{BookingID: "2", NormalizedThirdParty: "B", GuestName: "Li Lei"},
	}

	assignments, claims := NewMatcher().Match(source, system, nil)

	assert.Equal(t, 2, claims.Len())
	assert.Equal(t, Assignment{Source: 0, System: 0, Pass: PassThirdParty}, assignments[0])
	assert.Equal(t, Assignment{Source: 1, System: 1, Pass: PassGuestName}, assignments[1])
	assert.False(t, assignments[2].Matched())

	used := map[int]int{}
	for _, a := range assignments {
		if a.Matched() {
			used[a.System]++
		}
	}
	for idx, n := range used {
		assert.Equal(t, 1, n, "system row %d used %d times", idx, n)
	}
}

func TestMatch_PriorityOrdering(t *testing.T) {
	// Row 0 is eligible for pass 1 (system 0) and pass 2 (system 1).
	// Pass 1 wins and system 1 stays available for row 1.
	source := []SourceRecord{
		{OrderID: "ORD1", NormalizedConfirmation: "777"},
		{OrderID: "ORD9", NormalizedConfirmation: "777"},
	}
	system := []SystemRecord{
		{BookingID: "100", NormalizedThirdParty: "ORD1"},
		{BookingID: "777"},
	}

	assignments, _ := NewMatcher().Match(source, system, NewClaims())

	assert.Equal(t, Assignment{Source: 0, System: 0, Pass: PassThirdParty}, assignments[0])
	assert.Equal(t, Assignment{Source: 1, System: 1, Pass: PassConfirmation}, assignments[1])
}

func TestMatch_EmptyKeysNeverMatch(t *testing.T) {
	source := []SourceRecord{{}}
	system := []SystemRecord{{}}

	assignments, claims := NewMatcher().Match(source, system, nil)

	assert.False(t, assignments[0].Matched())
	assert.Zero(t, claims.Len())
}

func TestMatch_TieBreakIsPluggable(t *testing.T) {
	source := []SourceRecord{{GuestName: "Li Lei"}}
	system := []SystemRecord{{GuestName: "Li Lei"}, {GuestName: "Li Lei"}}

	assignments, _ := NewMatcher().Match(source, system, nil)
	assert.Equal(t, 0, assignments[0].System)

	last := &Matcher{TieBreak: func(c []int) int { return c[len(c)-1] }}
	assignments, _ = last.Match(source, system, nil)
	assert.Equal(t, 1, assignments[0].System)
}

func TestMatch_RespectsIncomingClaims(t *testing.T) {
	source := []SourceRecord{{GuestName: "Li Lei"}}
	system := []SystemRecord{{GuestName: "Li Lei"}, {GuestName: "Li Lei"}}

	claims := NewClaims()
	claims.claim(0)
	assignments, out := NewMatcher().Match(source, system, claims)

	assert.Equal(t, 1, assignments[0].System)
	assert.True(t, out.Has(0))
	assert.True(t, out.Has(1))
}

func TestAssemble_Completeness(t *testing.T) {
	source := []SourceRecord{
		{Row: 0, OrderID: "A"},
		{Row: 1, OrderID: "B"},
		{Row: 2, OrderID: "C"},
		{Row: 3, OrderID: "A"},
	}
	system := []SystemRecord{{NormalizedThirdParty: "A", Status: "I"}, {NormalizedThirdParty: "C", Status: "O"}}

	assignments, _ := NewMatcher().Match(source, system, nil)
	result := Assemble(source, system, assignments)

	require.Len(t, result.Rows, len(source))
	for i, row := range result.Rows {
		assert.Equal(t, i, row.SourceRow)
	}
	assert.Equal(t, result.Summary.Total, result.Summary.Matched+result.Summary.Unmatched)
	assert.Equal(t, 2, result.Summary.Matched)
	assert.Equal(t, 2, result.Summary.ByThirdParty)
	assert.Len(t, result.Unmatched, 2)
}

func TestAssemble_BackfillKeepsSourceValues(t *testing.T) {
	source := []SourceRecord{{OrderID: "A", RoomNumber: "301", CheckoutDate: "2025-10-02"}}
	system := []SystemRecord{{NormalizedThirdParty: "A", Status: "I"}}

	assignments, _ := NewMatcher().Match(source, system, nil)
	result := Assemble(source, system, assignments)

	row := result.Rows[0]
	assert.Equal(t, "301", row.RoomNumber)
	assert.Equal(t, "2025-10-02", row.CheckoutDate)
	assert.Equal(t, "I", row.Status)
	assert.Equal(t, []string{"A", "", "", "2025-10-02", "301", "I"}, row.Values())
}

func TestAssemble_BlankSystemStatus(t *testing.T) {
	source := []SourceRecord{{OrderID: "X1"}}
	system := []SystemRecord{{BookingID: "9", NormalizedThirdParty: "X1"}}

	assignments, _ := NewMatcher().Match(source, system, nil)
	result := Assemble(source, system, assignments)

	row := result.Rows[0]
	assert.Equal(t, UnmatchedStatus, row.Status)
	assert.Equal(t, PassThirdParty.String(), row.MatchedBy)
	assert.Equal(t, "9", row.BookingID)
	assert.Equal(t, 1, result.Summary.Matched)
	assert.Empty(t, result.Unmatched)
}

func TestSummary_String(t *testing.T) {
	s := Summary{Total: 3, Matched: 2, Unmatched: 1, ByThirdParty: 1, ByGuestName: 1}
	assert.Equal(t, "订单共 3 条，已匹配 2 条（第三方预订号 1，确认号 0，姓名 1），未匹配 1 条", s.String())
}
