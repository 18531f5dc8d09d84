package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus 出席狀態
type AttendanceStatus string

const (
	AttendanceAttending    AttendanceStatus = "attending"
	AttendanceNotAttending AttendanceStatus = "not_attending"
	AttendanceMaybe        AttendanceStatus = "maybe"
	AttendancePending      AttendanceStatus = "pending"
)

// CountedStatuses 統計與匯出只計算這兩種狀態
var CountedStatuses = []AttendanceStatus{AttendanceAttending, AttendanceNotAttending}

// IsCounted 是否列入統計
func (s AttendanceStatus) IsCounted() bool {
	return s == AttendanceAttending || s == AttendanceNotAttending
}

// Label 顯示用文字
func (s AttendanceStatus) Label() string {
	switch s {
	case AttendanceAttending:
		return "Attending"
	case AttendanceNotAttending:
		return "Not Attending"
	case AttendanceMaybe:
		return "Maybe"
	case AttendancePending:
		return "Pending"
	}
	return string(s)
}

const MaxGuestsPerRSVP = 10

// RSVP 回覆模型；建立後不可修改
type RSVP struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	EventID          uuid.UUID        `json:"event_id" db:"event_id"`
	GuestName        string           `json:"guest_name" db:"guest_name"`
	GuestEmail       *string          `json:"guest_email" db:"guest_email"`
	GuestPhone       *string          `json:"guest_phone" db:"guest_phone"`
	AttendanceStatus AttendanceStatus `json:"attendance_status" db:"attendance_status"`
	NumberOfGuests   int              `json:"number_of_guests" db:"number_of_guests"`
	HasPlusOne       bool             `json:"has_plusone" db:"has_plusone"`
	PlusOneName      *string          `json:"plusone_name" db:"plusone_name"`
	MealChoices      []string         `json:"meal_choices" db:"meal_choices"`
	Message          *string          `json:"message" db:"message"`
	IPAddress        *string          `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent        *string          `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// CreateRSVPRequest 來賓填寫的回覆表單。
// 欄位限制只存在於這一層 (binding)，service 不會再驗證一次。
type CreateRSVPRequest struct {
	GuestName        string           `json:"guest_name" form:"guest_name" binding:"required"`
	GuestEmail       string           `json:"guest_email" form:"guest_email" binding:"omitempty,email"`
	GuestPhone       string           `json:"guest_phone" form:"guest_phone"`
	AttendanceStatus AttendanceStatus `json:"attendance_status" form:"attendance_status" binding:"required"`
	NumberOfGuests   int              `json:"number_of_guests" form:"number_of_guests" binding:"required,min=1,max=10"`
	HasPlusOne       bool             `json:"has_plusone" form:"has_plusone"`
	PlusOneName      string           `json:"plusone_name" form:"plusone_name"`
	MealChoices      []string         `json:"meal_choices" form:"meal_choices"`
	Message          string           `json:"message" form:"message"`
}

// SubmissionMeta 送出時的請求資訊
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
}
