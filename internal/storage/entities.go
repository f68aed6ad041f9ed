package storage

import "time"

// Activity is one journaled board change.
type Activity struct {
	ID       int64
	Seq      uint64
	Kind     string
	TaskID   string
	ColumnID string
	Detail   string
	At       time.Time
}

type ActivityListFilter struct {
	Kind   string
	TaskID string
	Limit  int
	Offset int
}
