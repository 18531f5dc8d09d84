package dashboard

import "go-gin-rsvp/internal/model"

// Stats 由目前的 RSVP 清單推導，不儲存
type Stats struct {
	TotalResponses     int `json:"total_responses"`
	AttendingGuests    int `json:"attending"`
	NotAttendingGuests int `json:"not_attending"`
	TotalGuests        int `json:"total_guests"`
}

// ComputeStats counts only attending / not_attending rows; guests are summed per status.
func ComputeStats(rows []*model.RSVP) Stats {
	var s Stats
	for _, r := range rows {
		switch r.AttendanceStatus {
		case model.AttendanceAttending:
			s.TotalResponses++
			s.AttendingGuests += r.NumberOfGuests
		case model.AttendanceNotAttending:
			s.TotalResponses++
			s.NotAttendingGuests += r.NumberOfGuests
		}
	}
	s.TotalGuests = s.AttendingGuests + s.NotAttendingGuests
	return s
}
