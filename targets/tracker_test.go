package targets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type memFlagStore struct {
	set map[string]bool
	err error
}

func newMemFlagStore() *memFlagStore {
	return &memFlagStore{set: map[string]bool{}}
}

func (m *memFlagStore) Set(ctx context.Context, businessId, flagType, periodKey string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := businessId + "|" + flagType + "|" + periodKey
	if m.set[key] {
		return false, nil
	}
	m.set[key] = true
	return true, nil
}

type memSessionFlags struct {
	marked map[string]bool
}

func newMemSessionFlags() *memSessionFlags {
	return &memSessionFlags{marked: map[string]bool{}}
}

func (m *memSessionFlags) MarkOnce(ctx context.Context, businessId, sessionId, flag string) (bool, error) {
	key := businessId + "|" + sessionId + "|" + flag
	if m.marked[key] {
		return false, nil
	}
	m.marked[key] = true
	return true, nil
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) {
	r.sent = append(r.sent, n)
}

func newTestTracker(now time.Time) (*Tracker, *memFlagStore, *memSessionFlags, *recordingNotifier) {
	flags := newMemFlagStore()
	session := newMemSessionFlags()
	sink := &recordingNotifier{}
	tr := NewTracker(flags, session, sink, nil)
	tr.now = func() time.Time { return now }
	return tr, flags, session, sink
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func evalWith(daily int64) Evaluation {
	return Evaluation{
		BusinessId: "biz-1",
		SessionId:  "sess-1",
		Timezone:   "UTC",
		Goals:      Goals{DailyTarget: dec(1000)},
		Totals:     Totals{DailySales: dec(daily)},
	}
}

func countType(events []Event, t EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestDailyAchievementFiresExactlyOnce(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, sink := newTestTracker(now)
	ctx := context.Background()

	var all []Event
	for _, total := range []int64{400, 750, 1000, 1200, 900, 1000} {
		events, err := tr.Evaluate(ctx, evalWith(total))
		if err != nil {
			t.Fatal(err)
		}
		all = append(all, events...)
	}

	if got := countType(all, EventDailyAchieved); got != 1 {
		t.Errorf("daily-achieved fired %d times, want exactly 1", got)
	}
	achieved := 0
	for _, n := range sink.sent {
		if n.EventType == string(EventDailyAchieved) {
			achieved++
		}
	}
	if achieved != 1 {
		t.Errorf("achievement notifications = %d, want 1", achieved)
	}
}

func TestAchievementSurvivesRestart(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, flags, _, _ := newTestTracker(now)
	ctx := context.Background()

	if _, err := tr.Evaluate(ctx, evalWith(1100)); err != nil {
		t.Fatal(err)
	}

	// New tracker, same durable store: no second achievement.
	tr2 := NewTracker(flags, newMemSessionFlags(), &recordingNotifier{}, nil)
	tr2.now = func() time.Time { return now }
	events, err := tr2.Evaluate(ctx, evalWith(1100))
	if err != nil {
		t.Fatal(err)
	}
	if got := countType(events, EventDailyAchieved); got != 0 {
		t.Errorf("achievement re-fired after restart: %d events", got)
	}
}

func TestAchievementRefiresOnPeriodRollover(t *testing.T) {
	day1 := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(day1)
	ctx := context.Background()

	events, err := tr.Evaluate(ctx, evalWith(1500))
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyAchieved) != 1 {
		t.Fatal("first day achievement did not fire")
	}

	tr.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	events, err = tr.Evaluate(ctx, evalWith(1500))
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyAchieved) != 1 {
		t.Error("achievement did not fire for the new period key")
	}
}

func TestMilestonesFireOncePerSession(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(now)
	ctx := context.Background()

	events, err := tr.Evaluate(ctx, evalWith(800))
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyMilestone50) != 1 || countType(events, EventDailyMilestone75) != 1 {
		t.Fatalf("80%% should raise both 50 and 75 milestones once, got %+v", events)
	}

	events, err = tr.Evaluate(ctx, evalWith(850))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("milestones re-fired within the same session: %+v", events)
	}
}

func TestMilestonesRepeatInNewSession(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(now)
	ctx := context.Background()

	if _, err := tr.Evaluate(ctx, evalWith(600)); err != nil {
		t.Fatal(err)
	}

	ev := evalWith(600)
	ev.SessionId = "sess-2"
	events, err := tr.Evaluate(ctx, ev)
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyMilestone50) != 1 {
		t.Errorf("milestone did not repeat in a new session: %+v", events)
	}
}

func TestNoMilestonesAtOrAboveFullTarget(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(now)

	events, err := tr.Evaluate(context.Background(), evalWith(1000))
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyMilestone50) != 0 || countType(events, EventDailyMilestone75) != 0 {
		t.Errorf("milestones should not fire at 100%%: %+v", events)
	}
}

func TestZeroTargetDisablesTracking(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(now)

	ev := Evaluation{
		BusinessId: "biz-1",
		SessionId:  "sess-1",
		Goals:      Goals{},
		Totals:     Totals{DailySales: dec(999999), MonthlySales: dec(999999)},
	}
	events, err := tr.Evaluate(context.Background(), ev)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("no goals configured but events fired: %+v", events)
	}
}

func TestMonthlyTrackedIndependently(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, _, _, _ := newTestTracker(now)

	ev := Evaluation{
		BusinessId: "biz-1",
		SessionId:  "sess-1",
		Timezone:   "UTC",
		Goals:      Goals{DailyTarget: dec(1000), MonthlyTarget: dec(20000)},
		Totals:     Totals{DailySales: dec(1200), MonthlySales: dec(21000)},
	}
	events, err := tr.Evaluate(context.Background(), ev)
	if err != nil {
		t.Fatal(err)
	}
	if countType(events, EventDailyAchieved) != 1 || countType(events, EventMonthlyAchieved) != 1 {
		t.Errorf("expected both achievements, got %+v", events)
	}
	for _, e := range events {
		switch e.Type {
		case EventDailyAchieved:
			if e.PeriodKey != "2026-08-29" {
				t.Errorf("daily period key = %s", e.PeriodKey)
			}
		case EventMonthlyAchieved:
			if e.PeriodKey != "2026-08" {
				t.Errorf("monthly period key = %s", e.PeriodKey)
			}
		}
	}
}

func TestFlagStoreErrorSurfaces(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tr, flags, _, sink := newTestTracker(now)
	flags.err = fmt.Errorf("mysql down")

	_, err := tr.Evaluate(context.Background(), evalWith(1200))
	if err == nil {
		t.Fatal("flag store failure should surface")
	}
	if len(sink.sent) != 0 {
		t.Errorf("no notification should be sent when the guard cannot persist: %+v", sink.sent)
	}
}
