package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnomalyPriority(t *testing.T) {
	assert.Equal(t, 1, Anomaly{Severity: SeverityCritical}.Priority())
	assert.Equal(t, 2, Anomaly{Severity: SeverityAlert}.Priority())
	assert.Equal(t, 3, Anomaly{Severity: SeverityAttention}.Priority())
	assert.Equal(t, 4, Anomaly{Severity: SeverityInfo}.Priority())
	assert.Equal(t, 5, Anomaly{Severity: "UNKNOWN"}.Priority())
}

func TestRecommendedActionTotal(t *testing.T) {
	codes := []AnomalyCode{
		CodeCountImbalance,
		CodeAmountImbalance,
		CodeRecordsNotReceived,
		CodeVerifyBacklog,
		CodeDuplicateRemises,
		CodeStuckImages,
		CodeSystemError,
	}
	seen := map[string]bool{}
	for _, c := range codes {
		action := RecommendedAction(c)
		assert.NotEmpty(t, action, "code %s", c)
		seen[action] = true
	}
	assert.Len(t, seen, len(codes), "actions should be distinct per code")

	// Unknown codes fall back to the generic action instead of panicking.
	assert.NotEmpty(t, RecommendedAction("SOMETHING_NEW"))
}

func TestNewAnomalyStampsFields(t *testing.T) {
	a := NewAnomaly(CodeVerifyBacklog, "12 cheques necessitent une verification", SeverityAttention)

	assert.Equal(t, CodeVerifyBacklog, a.Code)
	assert.Equal(t, SeverityAttention, a.Severity)
	assert.False(t, a.DetectedAt.IsZero())
	assert.Equal(t, RecommendedAction(CodeVerifyBacklog), a.RecommendedAction)
}
