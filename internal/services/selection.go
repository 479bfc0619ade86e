package services

import (
	"github.com/gridstor/curvecast/internal/models"
)

// Instance selection scores. Trusted provenance with a full percentile set
// wins; a full percentile set alone beats trusted provenance alone.
const (
	scoreTrustedFullSet = 4
	scoreFullSetOnly    = 3
	scoreTrustedOnly    = 2
	scoreFallback       = 1
)

// ScoreInstance computes the selection score for one instance.
func ScoreInstance(ci *models.CurveInstance) int {
	trusted := ci.Provenance == models.ProvenanceTrusted ||
		models.ResolveProvenanceTier(ci.CreatedBy) == models.ProvenanceTrusted
	fullSet := ci.HasFullPercentileSet()

	switch {
	case trusted && fullSet:
		return scoreTrustedFullSet
	case fullSet:
		return scoreFullSetOnly
	case trusted:
		return scoreTrustedOnly
	default:
		return scoreFallback
	}
}

// SelectBestInstance picks the instance to show as the primary series for a
// definition. Highest score wins; ties break by most recent CreatedAt, then
// by smallest instance ID so repeated calls over the same list always agree.
// Non-ACTIVE instances are skipped. Returns nil for an empty or fully
// ineligible list — an empty state, not an error.
func SelectBestInstance(instances []models.CurveInstance) *models.CurveInstance {
	var best *models.CurveInstance
	bestScore := 0

	for i := range instances {
		ci := &instances[i]
		if ci.Status != models.InstanceStatusActive {
			continue
		}
		score := ScoreInstance(ci)
		if best == nil || score > bestScore || (score == bestScore && newerThan(ci, best)) {
			best = ci
			bestScore = score
		}
	}
	return best
}

func newerThan(a, b *models.CurveInstance) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
