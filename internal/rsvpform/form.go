// Package rsvpform is the guest response form as an explicit state machine:
// editing -> submitting -> submitted, or back to editing with the error.
// In preview mode Submit goes straight to submitted without writing.
package rsvpform

import (
	"context"
	"fmt"

	"go-gin-rsvp/internal/model"
)

type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// Submitter 實際寫入 RSVP 的函式
type Submitter func(ctx context.Context, input model.CreateRSVPRequest) (*model.RSVP, error)

type Form struct {
	State   State
	Preview bool
	Input   model.CreateRSVPRequest
	Result  *model.RSVP
	Err     error
}

// New 回傳一張新的空白表單 (預設 attending、1 位來賓)
func New(preview bool) *Form {
	return &Form{
		State:   StateEditing,
		Preview: preview,
		Input:   DefaultInput(),
	}
}

func DefaultInput() model.CreateRSVPRequest {
	return model.CreateRSVPRequest{
		AttendanceStatus: model.AttendanceAttending,
		NumberOfGuests:   1,
		MealChoices:      []string{},
	}
}

// Submit 送出表單。只有 editing 狀態可以送出。
func (f *Form) Submit(ctx context.Context, input model.CreateRSVPRequest, submit Submitter) error {
	if f.State != StateEditing {
		return fmt.Errorf("rsvpform: cannot submit in state %s", f.State)
	}

	f.Input = input
	f.Err = nil

	if f.Preview {
		f.State = StateSubmitted
		return nil
	}

	f.State = StateSubmitting
	rsvp, err := submit(ctx, input)
	if err != nil {
		f.State = StateEditing
		f.Err = err
		return err
	}

	f.Result = rsvp
	f.State = StateSubmitted
	return nil
}

// Reset 「再填一份」：回到空白的 editing 狀態
func (f *Form) Reset() {
	f.State = StateEditing
	f.Input = DefaultInput()
	f.Result = nil
	f.Err = nil
}

func (f *Form) ErrorMessage() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}
