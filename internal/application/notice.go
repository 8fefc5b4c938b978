package application

import (
	"time"

	"intake/internal/party"
	"intake/internal/wizard/step"
)

type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a transient user-visible message. External call failures and
// gate refusals each produce exactly one.
type Notice struct {
	ID        int         `json:"id"`
	Level     NoticeLevel `json:"level"`
	Step      step.Step   `json:"step"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AddNotice appends a notice with the next id.
func (a *Application) AddNotice(level NoticeLevel, s step.Step, message string, now time.Time) Notice {
	ids := make([]int, 0, len(a.Notices))
	for _, n := range a.Notices {
		ids = append(ids, n.ID)
	}
	n := Notice{ID: party.NextID(ids), Level: level, Step: s, Message: message, CreatedAt: now}
	a.Notices = append(a.Notices, n)
	return n
}

// DismissNotices removes the given notices, or all of them when none are named.
// It returns how many were removed.
func (a *Application) DismissNotices(noticeIDs ...int) int {
	if len(noticeIDs) == 0 {
		n := len(a.Notices)
		a.Notices = []Notice{}
		return n
	}
	drop := make(map[int]bool, len(noticeIDs))
	for _, nid := range noticeIDs {
		drop[nid] = true
	}
	kept := a.Notices[:0]
	for _, n := range a.Notices {
		if !drop[n.ID] {
			kept = append(kept, n)
		}
	}
	removed := len(a.Notices) - len(kept)
	a.Notices = kept
	return removed
}
