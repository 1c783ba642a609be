package targets

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventDailyAchieved      EventType = "daily-achieved"
	EventMonthlyAchieved    EventType = "monthly-achieved"
	EventDailyMilestone50   EventType = "daily-milestone-50"
	EventDailyMilestone75   EventType = "daily-milestone-75"
	EventMonthlyMilestone50 EventType = "monthly-milestone-50"
	EventMonthlyMilestone75 EventType = "monthly-milestone-75"
)

// Event is one target-tracking transition to raise.
type Event struct {
	Type       EventType       `json:"type"`
	BusinessId string          `json:"business_id"`
	PeriodKey  string          `json:"period_key"`
	Percent    decimal.Decimal `json:"percent"`
}

// Goals are the configured sales targets. A zero or negative target disables
// tracking for that period.
type Goals struct {
	DailyTarget   decimal.Decimal
	MonthlyTarget decimal.Decimal
}

// Totals are the running sales totals for the current day and month.
type Totals struct {
	DailySales   decimal.Decimal
	MonthlySales decimal.Decimal
}

// FlagStore persists achievement flags. Set reports whether the flag was
// newly created; an already-present flag means the achievement already fired.
type FlagStore interface {
	Set(ctx context.Context, businessId, flagType, periodKey string) (bool, error)
}

// SessionFlags holds the one-shot milestone guards for a single session.
type SessionFlags interface {
	MarkOnce(ctx context.Context, businessId, sessionId, flag string) (bool, error)
}

// Notifier delivers events fire-and-forget; no acknowledgment expected.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Evaluation is one tracker run for one business.
type Evaluation struct {
	BusinessId string
	SessionId  string
	Timezone   string
	Goals      Goals
	Totals     Totals
}

// Tracker compares running totals to configured goals and emits one-shot
// achievement and milestone events. Achievements are guarded solely by the
// durable flag, so they fire exactly once per period key across restarts.
// Milestones are guarded per session and repeat in a later session.
type Tracker struct {
	flags   FlagStore
	session SessionFlags
	sink    Notifier
	logger  *logrus.Logger
	now     func() time.Time
}

func NewTracker(flags FlagStore, session SessionFlags, sink Notifier, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Tracker{flags: flags, session: session, sink: sink, logger: logger, now: time.Now}
}

var milestones = []int64{50, 75}

// Evaluate runs the state machine for both goal periods and returns the
// events raised this call. A value later dropping below 100% never clears an
// achievement; only a new period key starts a new cycle.
func (t *Tracker) Evaluate(ctx context.Context, ev Evaluation) ([]Event, error) {
	now := t.now()
	var events []Event

	daily, err := t.evaluateGoal(ctx, ev, goalSpec{
		target:       ev.Goals.DailyTarget,
		total:        ev.Totals.DailySales,
		periodKey:    utils.DailyPeriodKey(now, ev.Timezone),
		flagType:     "daily",
		achievedType: EventDailyAchieved,
		milestoneTypes: map[int64]EventType{
			50: EventDailyMilestone50,
			75: EventDailyMilestone75,
		},
	})
	if err != nil {
		return events, err
	}
	events = append(events, daily...)

	monthly, err := t.evaluateGoal(ctx, ev, goalSpec{
		target:       ev.Goals.MonthlyTarget,
		total:        ev.Totals.MonthlySales,
		periodKey:    utils.MonthlyPeriodKey(now, ev.Timezone),
		flagType:     "monthly",
		achievedType: EventMonthlyAchieved,
		milestoneTypes: map[int64]EventType{
			50: EventMonthlyMilestone50,
			75: EventMonthlyMilestone75,
		},
	})
	if err != nil {
		return events, err
	}
	events = append(events, monthly...)

	return events, nil
}

type goalSpec struct {
	target         decimal.Decimal
	total          decimal.Decimal
	periodKey      string
	flagType       string
	achievedType   EventType
	milestoneTypes map[int64]EventType
}

func (t *Tracker) evaluateGoal(ctx context.Context, ev Evaluation, spec goalSpec) ([]Event, error) {
	if !spec.target.IsPositive() {
		return nil, nil
	}
	percent := spec.total.Div(spec.target).Mul(decimal.NewFromInt(100))

	var events []Event
	if percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		newly, err := t.flags.Set(ctx, ev.BusinessId, spec.flagType, spec.periodKey)
		if err != nil {
			return events, fmt.Errorf("persisting %s achievement flag: %w", spec.flagType, err)
		}
		if newly {
			e := Event{Type: spec.achievedType, BusinessId: ev.BusinessId, PeriodKey: spec.periodKey, Percent: percent}
			events = append(events, e)
			t.emit(ctx, e)
		}
		return events, nil
	}

	for _, m := range milestones {
		if percent.LessThan(decimal.NewFromInt(m)) {
			continue
		}
		flag := fmt.Sprintf("%s-%d:%s", spec.flagType, m, spec.periodKey)
		newly, err := t.session.MarkOnce(ctx, ev.BusinessId, ev.SessionId, flag)
		if err != nil {
			config.LogError(t.logger, "targets", "Evaluate", "marking session milestone", map[string]any{
				"businessId": ev.BusinessId,
				"flag":       flag,
			}, err)
			continue
		}
		if newly {
			e := Event{Type: spec.milestoneTypes[m], BusinessId: ev.BusinessId, PeriodKey: spec.periodKey, Percent: percent}
			events = append(events, e)
			t.emit(ctx, e)
		}
	}
	return events, nil
}

func (t *Tracker) emit(ctx context.Context, e Event) {
	if t.sink == nil {
		return
	}
	t.sink.Notify(ctx, Notification{
		BusinessId: e.BusinessId,
		EventType:  string(e.Type),
		PeriodKey:  e.PeriodKey,
		Message:    messageFor(e),
		Severity:   severityFor(e.Type),
	})
}

func messageFor(e Event) string {
	switch e.Type {
	case EventDailyAchieved:
		return "Daily sales target achieved"
	case EventMonthlyAchieved:
		return "Monthly sales target achieved"
	case EventDailyMilestone50:
		return "Daily sales reached 50% of target"
	case EventDailyMilestone75:
		return "Daily sales reached 75% of target"
	case EventMonthlyMilestone50:
		return "Monthly sales reached 50% of target"
	case EventMonthlyMilestone75:
		return "Monthly sales reached 75% of target"
	}
	return string(e.Type)
}

func severityFor(t EventType) string {
	switch t {
	case EventDailyAchieved, EventMonthlyAchieved:
		return "success"
	default:
		return "info"
	}
}
