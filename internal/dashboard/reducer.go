// Package dashboard derives the host dashboard view from RSVP rows: the
// reducer that folds change notifications into the loaded set, and the
// statistics computed over it.
package dashboard

import (
	"go-gin-rsvp/internal/model"
)

// Apply 依變更通知更新目前的 RSVP 清單並回傳新清單，不修改輸入 slice。
// inserted: prepend when the status is counted; updated: replace by id;
// deleted: remove by id.
func Apply(rows []*model.RSVP, change model.RSVPChange) []*model.RSVP {
	if change.Row == nil {
		return rows
	}

	switch change.Type {
	case model.ChangeInserted:
		if !change.Row.AttendanceStatus.IsCounted() {
			return rows
		}
		out := make([]*model.RSVP, 0, len(rows)+1)
		out = append(out, change.Row)
		return append(out, rows...)

	case model.ChangeUpdated:
		out := make([]*model.RSVP, len(rows))
		for i, r := range rows {
			if r.ID == change.Row.ID {
				out[i] = change.Row
			} else {
				out[i] = r
			}
		}
		return out

	case model.ChangeDeleted:
		out := make([]*model.RSVP, 0, len(rows))
		for _, r := range rows {
			if r.ID != change.Row.ID {
				out = append(out, r)
			}
		}
		return out
	}

	return rows
}

// Filter 只保留列入統計的狀態
func Filter(rows []*model.RSVP) []*model.RSVP {
	out := make([]*model.RSVP, 0, len(rows))
	for _, r := range rows {
		if r.AttendanceStatus.IsCounted() {
			out = append(out, r)
		}
	}
	return out
}
