package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"go-gin-rsvp/internal/model"
)

const (
	CSVContentType    = "text/csv; charset=utf-8"
	submittedAtLayout = "1/2/2006, 3:04:05 PM"
)

var CSVHeaders = []string{"Name", "Status", "Guests", "Contact", "Message", "Submitted At"}

// CSVFileName 匯出檔名
func CSVFileName(slug string) string {
	return slug + "-rsvps.csv"
}

// WriteRSVPCSV 將 RSVP 匯出為 CSV。只輸出 attending / not_attending，
// 每個欄位都加上雙引號。
func WriteRSVPCSV(w io.Writer, rows []*model.RSVP) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeaders, ",")); err != nil {
		return err
	}

	for _, r := range rows {
		if !r.AttendanceStatus.IsCounted() {
			continue
		}
		cells := []string{
			r.GuestName,
			r.AttendanceStatus.Label(),
			strconv.Itoa(r.NumberOfGuests),
			contact(r),
			deref(r.Message),
			r.CreatedAt.Format(submittedAtLayout),
		}
		for i, c := range cells {
			cells[i] = quote(c)
		}
		if _, err := bw.WriteString("\n" + strings.Join(cells, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// email 與電話以 " | " 串接，兩者皆無則為 N/A
func contact(r *model.RSVP) string {
	parts := make([]string, 0, 2)
	if v := deref(r.GuestEmail); v != "" {
		parts = append(parts, v)
	}
	if v := deref(r.GuestPhone); v != "" {
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " | ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
