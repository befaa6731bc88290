package tui

import (
	"time"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

type digestMsg struct {
	digest  digest.DigestData
	history []digest.HistoryEntry
	// warn carries a non-fatal history write failure alongside a valid digest.
	warn error
}

type digestErrMsg struct {
	err error
}

type scheduleMsg struct {
	schedule digest.Schedule
	logs     []digest.ExecutionLog
	note     string
}

type scheduleErrMsg struct {
	err error
}

type settingsSavedMsg struct {
	err error
}

type updateMsg struct {
	version string
	url     string
}

type tickMsg time.Time
