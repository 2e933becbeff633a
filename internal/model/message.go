package model

import "errors"

// ScheduleAssistMessage is the queue payload that triggers a planning run.
type ScheduleAssistMessage struct {
	UserID                 string  `json:"userId"`
	WindowStartDate        string  `json:"windowStartDate"` // local timestamp
	WindowEndDate          string  `json:"windowEndDate"`
	Timezone               string  `json:"timezone"`
	NaturalLanguageRequest *string `json:"naturalLanguageRequest,omitempty"`
}

// Validate rejects a message before any fetch work happens.
func (m *ScheduleAssistMessage) Validate() error {
	switch {
	case m.UserID == "":
		return errors.New("userId is required")
	case m.WindowStartDate == "":
		return errors.New("windowStartDate is required")
	case m.WindowEndDate == "":
		return errors.New("windowEndDate is required")
	case m.Timezone == "":
		return errors.New("timezone is required")
	}
	return nil
}
