package model

import "fmt"

type Action string

const (
	ActionNone Action = ""
	ActionOn   Action = "on"
	ActionOff  Action = "off"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionNone, ActionOn, ActionOff:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// ActionFromNumber decodes the numeric form scenes use: 1 on, 0 off, -1 none.
func ActionFromNumber(n int) (Action, error) {
	switch n {
	case 1:
		return ActionOn, nil
	case 0:
		return ActionOff, nil
	case -1:
		return ActionNone, nil
	}
	return "", fmt.Errorf("unknown action number %d", n)
}

type Trigger string

const (
	TriggerSunrise Trigger = "sunrise"
	TriggerSunset  Trigger = "sunset"
	TriggerTime    Trigger = "time"
)

func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case TriggerSunrise, TriggerSunset, TriggerTime:
		return t, nil
	}
	return "", fmt.Errorf("unknown trigger %q", s)
}

type Subject string

const (
	SubjectSwitch Subject = "switch"
	SubjectScene  Subject = "scene"
)

func ParseSubject(s string) (Subject, error) {
	switch sub := Subject(s); sub {
	case SubjectSwitch, SubjectScene:
		return sub, nil
	}
	return "", fmt.Errorf("unknown timer subject %q", s)
}

// Day numbers follow the device: 0 is Sunday.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// dayOnce marks a timer that fires a single time.
const dayOnce = 7

// DaysFromAPI converts the device day list. The "once" marker is dropped.
func DaysFromAPI(nums []int) ([]Day, error) {
	days := make([]Day, 0, len(nums))
	for _, n := range nums {
		if n == dayOnce {
			continue
		}
		if n < int(Sunday) || n > int(Saturday) {
			return nil, fmt.Errorf("unknown day number %d", n)
		}
		days = append(days, Day(n))
	}
	return days, nil
}

type Timer struct {
	Entity
	Trigger      Trigger `json:"trigger"`
	Action       Action  `json:"action"`
	Subject      Subject `json:"subject"`
	SubjectID    int     `json:"subject_id"`
	Active       bool    `json:"active"`
	TimeOrOffset string  `json:"time"`
	Days         []Day   `json:"days"`
}

// Repeating reports whether the timer runs on a weekly schedule rather than once.
func (t Timer) Repeating() bool {
	return len(t.Days) > 0
}
