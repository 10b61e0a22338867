package service

import "time"

// Timer 是可取消的延遲動作
type Timer interface {
	Stop() bool
}

// Scheduler 負責排程延遲動作，測試時可替換成手動觸發的實作
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewScheduler 回傳以 time.AfterFunc 實作的 Scheduler
func NewScheduler() Scheduler {
	return realScheduler{}
}
