package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType 活動類型
type EventType string

const (
	EventTypeWedding      EventType = "wedding"
	EventTypeEngagement   EventType = "engagement"
	EventTypeBirthday     EventType = "birthday"
	EventTypeBabyShower   EventType = "baby_shower"
	EventTypeBridalShower EventType = "bridal_shower"
	EventTypeCorporate    EventType = "corporate"
	EventTypeAnniversary  EventType = "anniversary"
	EventTypeGraduation   EventType = "graduation"
	EventTypeCustom       EventType = "custom"
)

// EventTypes lists every type in display order.
var EventTypes = []EventType{
	EventTypeWedding,
	EventTypeEngagement,
	EventTypeBirthday,
	EventTypeBabyShower,
	EventTypeBridalShower,
	EventTypeCorporate,
	EventTypeAnniversary,
	EventTypeGraduation,
	EventTypeCustom,
}

// IsValid 驗證類型是否有效
func (t EventType) IsValid() bool {
	for _, et := range EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

const DefaultThemeColor = "#000000"

// DefaultAttendanceOptions 預設的出席選項
var DefaultAttendanceOptions = []string{string(AttendanceAttending), string(AttendanceNotAttending)}

// Event 活動模型
type Event struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	Slug                    string     `json:"slug" db:"slug"`
	EventType               EventType  `json:"event_type" db:"event_type"`
	Title                   string     `json:"title" db:"title"`
	Date                    time.Time  `json:"date" db:"date"`
	Location                string     `json:"location" db:"location"`
	LocationURL             *string    `json:"location_url" db:"location_url"`
	DressCode               *string    `json:"dress_code" db:"dress_code"`
	ProgramNotes            *string    `json:"program_notes" db:"program_notes"`
	CoverImageURL           *string    `json:"cover_image_url" db:"cover_image_url"`
	ThemeColor              string     `json:"theme_color" db:"theme_color"`
	AllowPlusOne            bool       `json:"allow_plusone" db:"allow_plusone"`
	RequireMealChoice       bool       `json:"require_meal_choice" db:"require_meal_choice"`
	MealOptions             []string   `json:"meal_options" db:"meal_options"`
	CustomAttendanceOptions []string   `json:"custom_attendance_options" db:"custom_attendance_options"`
	RSVPDeadline            *time.Time `json:"rsvp_deadline,omitempty" db:"rsvp_deadline"`
	HostName                string     `json:"host_name" db:"host_name"`
	HostEmail               string     `json:"host_email" db:"host_email"`
	IsActive                bool       `json:"is_active" db:"is_active"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
}

// EventSummary 主辦人登入時的活動選單項目
type EventSummary struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	EventType     EventType `json:"event_type"`
	Date          time.Time `json:"date"`
	CoverImageURL *string   `json:"cover_image_url"`
}

func (e *Event) Summary() EventSummary {
	return EventSummary{
		ID:            e.ID,
		Slug:          e.Slug,
		Title:         e.Title,
		EventType:     e.EventType,
		Date:          e.Date,
		CoverImageURL: e.CoverImageURL,
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	EventType               EventType  `json:"event_type"`
	Title                   string     `json:"title" binding:"required"`
	Date                    *time.Time `json:"date" binding:"required"`
	Location                string     `json:"location" binding:"required"`
	LocationURL             string     `json:"location_url"`
	DressCode               string     `json:"dress_code"`
	ProgramNotes            string     `json:"program_notes"`
	CoverImageURL           string     `json:"cover_image_url"`
	ThemeColor              string     `json:"theme_color" binding:"omitempty,hexcolor"`
	AllowPlusOne            bool       `json:"allow_plusone"`
	RequireMealChoice       bool       `json:"require_meal_choice"`
	MealOptions             []string   `json:"meal_options"`
	CustomAttendanceOptions []string   `json:"custom_attendance_options"`
	RSVPDeadline            *time.Time `json:"rsvp_deadline"`
	HostName                string     `json:"host_name" binding:"required"`
	HostEmail               string     `json:"host_email" binding:"required,email"`
}

// UpdateEventRequest 更新活動請求；host_email 只用來比對，不會被寫入
type UpdateEventRequest struct {
	HostEmail               string     `json:"host_email" binding:"required"`
	EventType               *EventType `json:"event_type"`
	Title                   *string    `json:"title"`
	Date                    *time.Time `json:"date"`
	Location                *string    `json:"location"`
	LocationURL             *string    `json:"location_url"`
	DressCode               *string    `json:"dress_code"`
	ProgramNotes            *string    `json:"program_notes"`
	CoverImageURL           *string    `json:"cover_image_url"`
	ThemeColor              *string    `json:"theme_color" binding:"omitempty,hexcolor"`
	AllowPlusOne            *bool      `json:"allow_plusone"`
	RequireMealChoice       *bool      `json:"require_meal_choice"`
	MealOptions             []string   `json:"meal_options"`
	CustomAttendanceOptions []string   `json:"custom_attendance_options"`
	RSVPDeadline            *time.Time `json:"rsvp_deadline"`
}

// UpdateEventParams 更新欄位；nil 表示不更新。
// Nullable text columns use a pointer to a pointer: a non-nil outer pointer
// to a nil inner pointer clears the column.
type UpdateEventParams struct {
	EventType               *EventType
	Title                   *string
	Date                    *time.Time
	Location                *string
	LocationURL             **string
	DressCode               **string
	ProgramNotes            **string
	CoverImageURL           **string
	ThemeColor              *string
	AllowPlusOne            *bool
	RequireMealChoice       *bool
	MealOptions             []string
	CustomAttendanceOptions []string
	RSVPDeadline            *time.Time
}

// IsEmpty 沒有任何要更新的欄位
func (p UpdateEventParams) IsEmpty() bool {
	return p.EventType == nil && p.Title == nil && p.Date == nil && p.Location == nil &&
		p.LocationURL == nil && p.DressCode == nil && p.ProgramNotes == nil &&
		p.CoverImageURL == nil && p.ThemeColor == nil && p.AllowPlusOne == nil &&
		p.RequireMealChoice == nil && p.MealOptions == nil &&
		p.CustomAttendanceOptions == nil && p.RSVPDeadline == nil
}

// CreateEventResponse 建立成功後回傳活動與 dashboard 導向網址
type CreateEventResponse struct {
	Event       *Event `json:"event"`
	RedirectURL string `json:"redirect_url"`
}
