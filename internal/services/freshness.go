package services

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridstor/curvecast/internal/models"
)

// FreshnessService computes per-definition cadence state and on-time streaks
// from recorded update marks. The clock is injectable for tests.
type FreshnessService struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewFreshnessService creates a freshness service using the wall clock.
func NewFreshnessService(logger *logrus.Logger) *FreshnessService {
	return &FreshnessService{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *FreshnessService) WithClock(now func() time.Time) *FreshnessService {
	s.now = now
	return s
}

// ComputeState derives the cadence state for one definition from its update
// marks. With no marks the state is Unknown — never coerced to Fresh or
// Stale. A new mark moves the state back to Fresh by pushing NextExpectedDate
// to lastReceived + cadence; going Stale is purely a wall-clock comparison.
func (s *FreshnessService) ComputeState(definitionID string, freq models.UpdateFrequency, marks []time.Time) models.FreshnessState {
	state := models.FreshnessState{
		DefinitionID:    definitionID,
		UpdateFrequency: freq,
		Status:          models.FreshnessUnknown,
	}
	if len(marks) == 0 {
		return state
	}

	sorted := make([]time.Time, len(marks))
	copy(sorted, marks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	last := sorted[len(sorted)-1]
	next := freq.Next(last)
	state.LastReceivedDate = &last
	state.NextExpectedDate = &next

	if s.now().After(next) {
		state.Status = models.FreshnessStale
	} else {
		state.Status = models.FreshnessFresh
		state.IsCurrentlyFresh = true
	}

	state.Streak = s.ComputeStreak(freq, sorted)
	return state
}

// ComputeStreak flags each actual mark against the expected schedule that
// starts at the first recorded mark. The k-th mark is on time only when it
// lands in the k-th schedule slot (same day for DAILY, same ISO week for
// WEEKLY, same calendar month for MONTHLY); skipping a slot makes the next
// mark late. The result is ordered newest-first.
func (s *FreshnessService) ComputeStreak(freq models.UpdateFrequency, marks []time.Time) []models.StreakEntry {
	if len(marks) == 0 {
		return nil
	}

	sorted := make([]time.Time, len(marks))
	copy(sorted, marks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	entries := make([]models.StreakEntry, 0, len(sorted))
	expected := sorted[0]
	for _, mark := range sorted {
		entries = append(entries, models.StreakEntry{
			MarkDate: mark,
			OnTime:   sameSlot(mark, expected, freq),
		})
		expected = freq.Next(expected)
	}

	// newest-first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

func sameSlot(mark, expected time.Time, freq models.UpdateFrequency) bool {
	switch freq {
	case models.FrequencyDaily:
		return mark.Year() == expected.Year() && mark.YearDay() == expected.YearDay()
	case models.FrequencyWeekly:
		my, mw := mark.ISOWeek()
		ey, ew := expected.ISOWeek()
		return my == ey && mw == ew
	default:
		return mark.Year() == expected.Year() && mark.Month() == expected.Month()
	}
}

// DefaultVintageWindow is the tolerance around the newest upload batch within
// which an instance still counts as current.
const DefaultVintageWindow = 30 * 24 * time.Hour

// TagVintages tags each instance in a market/location cohort with whether it
// belongs to the current vintage: the newest CreatedAt across the cohort,
// minus the tolerance window. This relative cohort notion is deliberately
// separate from the per-definition cadence state.
func TagVintages(instances []models.CurveInstance, window time.Duration) []models.VintageTag {
	if len(instances) == 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultVintageWindow
	}

	vintage := instances[0].CreatedAt
	for _, ci := range instances[1:] {
		if ci.CreatedAt.After(vintage) {
			vintage = ci.CreatedAt
		}
	}

	tags := make([]models.VintageTag, 0, len(instances))
	for _, ci := range instances {
		tags = append(tags, models.VintageTag{
			InstanceID:     ci.ID,
			DefinitionID:   ci.DefinitionID,
			CreatedAt:      ci.CreatedAt,
			IsCurrent:      vintage.Sub(ci.CreatedAt) <= window,
			CurrentVintage: vintage,
		})
	}
	return tags
}
