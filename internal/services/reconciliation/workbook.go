package reconciliation

import (
	"ota-reconciliation-backend/internal/services/matching"
	"ota-reconciliation-backend/internal/services/meituan"
	"ota-reconciliation-backend/internal/spreadsheet"
)

const (
	SheetAuditResult = "核对结果"
	SheetUnmatched   = "未匹配"
	SheetMismatches  = "日期不一致"
	SheetNotFound    = "未找到"
	SheetMeituan     = "美团匹配结果"
)

var (
	mismatchColumns = []string{
		matching.ColBookingID, "系统到达", "系统离开", "OTA入住日期", "OTA离店日期", "系统房价", "OTA房费",
	}
	notFoundColumns = []string{matching.ColBookingID, matching.ColCheckin, matching.ColCheckout}
)

func AuditWorkbook(result *matching.AuditResult) ([]byte, error) {
	return spreadsheet.Write(
		spreadsheet.Sheet{Name: SheetAuditResult, Headers: matching.AuditColumns, Rows: auditRows(result.Rows)},
		spreadsheet.Sheet{Name: SheetUnmatched, Headers: matching.AuditColumns, Rows: auditRows(result.Unmatched)},
	)
}

func auditRows(rows []matching.ResultRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Values())
	}
	return out
}

func DateWorkbook(cmp *matching.DateComparison) ([]byte, error) {
	mismatches := make([][]string, 0, len(cmp.Mismatches))
	for _, m := range cmp.Mismatches {
		mismatches = append(mismatches, []string{
			m.BookingID, m.SystemCheckin, m.SystemCheckout, m.OTACheckin, m.OTACheckout, m.SystemPrice, m.OTAPrice,
		})
	}
	notFound := make([][]string, 0, len(cmp.NotFound))
	for _, n := range cmp.NotFound {
		notFound = append(notFound, []string{n.BookingID, n.SystemCheckin, n.SystemCheckout})
	}
	return spreadsheet.Write(
		spreadsheet.Sheet{Name: SheetMismatches, Headers: mismatchColumns, Rows: mismatches},
		spreadsheet.Sheet{Name: SheetNotFound, Headers: notFoundColumns, Rows: notFound},
	)
}

func MeituanWorkbook(result *meituan.LookupResult) ([]byte, error) {
	rows := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		rows = append(rows, r.Values())
	}
	return spreadsheet.Write(spreadsheet.Sheet{Name: SheetMeituan, Headers: meituan.Columns, Rows: rows})
}
