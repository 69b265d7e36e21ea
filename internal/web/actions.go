package web

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/gridview/internal/core"
)

// defaultActionLogSize is how many row actions the server remembers.
const defaultActionLogSize = 200

// ActionRecord is one row action received from a view.
type ActionRecord struct {
	Time    time.Time      `json:"time"`
	ViewID  string         `json:"viewId"`
	Dataset string         `json:"dataset"`
	Action  core.RowAction `json:"action"`
	Index   int            `json:"index"`
	Row     core.Row       `json:"row"`
	Actor   core.Actor     `json:"actor"`
}

// ActionLog is the server's row action host. Datasets are read-only, so
// every action is recorded and nothing is mutated; the newest records are
// served by /api/actions.
type ActionLog struct {
	mu      sync.Mutex
	records []ActionRecord
	limit   int
	now     func() time.Time
}

// NewActionLog keeps the last limit records.
func NewActionLog(limit int) *ActionLog {
	if limit <= 0 {
		limit = defaultActionLogSize
	}
	return &ActionLog{limit: limit, now: time.Now}
}

// HostFor returns the host for one view's engine.
func (l *ActionLog) HostFor(viewID, dataset string) core.RowActionHost {
	return core.HostFunc(func(ctx context.Context, action core.RowAction, row core.Row, index int) error {
		l.add(ActionRecord{
			Time:    l.now(),
			ViewID:  viewID,
			Dataset: dataset,
			Action:  action,
			Index:   index,
			Row:     row,
			Actor:   core.ActorFromContext(ctx),
		})
		return nil
	})
}

func (l *ActionLog) add(rec ActionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	if over := len(l.records) - l.limit; over > 0 {
		l.records = append(l.records[:0:0], l.records[over:]...)
	}
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (l *ActionLog) Recent(n int) []ActionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]ActionRecord, 0, n)
	for i := len(l.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.records[i])
	}
	return out
}
