package service

import (
	"strings"
	"testing"

	"github.com/Joseph3331/Layman-law/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRisksWellFormedJSON(t *testing.T) {
	reply := `[
		{"clause": "Termination", "severity": "Red", "details": "Unilateral termination without notice."},
		{"clause": "Payment", "severity": "green", "details": "Standard net-30 terms."}
	]`

	items := NormalizeRisks(reply)
	require.Len(t, items, 2)
	assert.Equal(t, "Termination", items[0].Clause)
	assert.Equal(t, model.SeverityRed, items[0].Severity)
	assert.Equal(t, "Unilateral termination without notice.", items[0].Details)
	assert.Equal(t, model.SeverityGreen, items[1].Severity)
}

func TestNormalizeRisksSeverityFirstCharacter(t *testing.T) {
	tests := []struct {
		severity string
		want     model.Severity
	}{
		{"RED", model.SeverityRed},
		{"r", model.SeverityRed},
		{"yellow", model.SeverityYellow},
		{"Green", model.SeverityGreen},
		{"unknown-value", model.SeverityYellow},
		{"", model.SeverityYellow},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			items := NormalizeRisks(`[{"clause": "c", "severity": "` + tt.severity + `"}]`)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Severity)
		})
	}
}

func TestNormalizeRisksSynonymKeys(t *testing.T) {
	items := NormalizeRisks(`[{"title": "Liability Cap", "level": "red", "explanation": "No cap on liability."}]`)
	require.Len(t, items, 1)
	assert.Equal(t, "Liability Cap", items[0].Clause)
	assert.Equal(t, model.SeverityRed, items[0].Severity)
	assert.Equal(t, "No cap on liability.", items[0].Details)
}

func TestNormalizeRisksMissingFields(t *testing.T) {
	items := NormalizeRisks(`[{}]`)
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Clause)
	assert.Equal(t, model.SeverityYellow, items[0].Severity)
	assert.Equal(t, "", items[0].Details)
}

func TestNormalizeRisksDropsNonObjectElements(t *testing.T) {
	items := NormalizeRisks(`["just a string", {"clause": "IP", "severity": "green"}, 42]`)
	require.Len(t, items, 1)
	assert.Equal(t, "IP", items[0].Clause)
}

func TestNormalizeRisksLineFallback(t *testing.T) {
	reply := "Termination clause is HIGH risk\n\nPayment terms look fine, low risk\nIndemnity needs caution\nNothing notable here"

	items := NormalizeRisks(reply)
	require.Len(t, items, 4)
	assert.Equal(t, model.SeverityRed, items[0].Severity)
	assert.Equal(t, model.SeverityGreen, items[1].Severity)
	assert.Equal(t, model.SeverityYellow, items[2].Severity)
	assert.Equal(t, model.SeverityYellow, items[3].Severity) // default
	assert.Equal(t, "Termination clause is HIGH risk", items[0].Details)
}

func TestNormalizeRisksLineFallbackPriority(t *testing.T) {
	// "high" wins over "low" when both appear
	items := NormalizeRisks("risk is high, not low")
	require.Len(t, items, 1)
	assert.Equal(t, model.SeverityRed, items[0].Severity)
}

func TestNormalizeRisksLongLineClauseCap(t *testing.T) {
	line := strings.Repeat("a", 300)
	items := NormalizeRisks(line)
	require.Len(t, items, 1)
	assert.Len(t, []rune(items[0].Clause), 120)
	assert.Equal(t, line, items[0].Details)
}

func TestNormalizeRisksEmptyReply(t *testing.T) {
	for _, reply := range []string{"", "   \n\t  \n"} {
		items := NormalizeRisks(reply)
		require.Len(t, items, 1)
		assert.Equal(t, model.RiskItem{
			Clause:   "Analysis",
			Severity: model.SeverityYellow,
			Details:  "",
		}, items[0])
	}
}

func TestNormalizeRisksAlwaysUniform(t *testing.T) {
	// Shape is idempotent regardless of input quality
	inputs := []string{
		`[{"clause": "a", "severity": "Red", "details": "b"}]`,
		"some\nplain\nlines",
		"",
		`{"not": "a list"}`,
		`[]`,
	}
	for _, in := range inputs {
		items := NormalizeRisks(in)
		require.NotEmpty(t, items, "input %q", in)
		for _, it := range items {
			assert.Contains(t, []model.Severity{model.SeverityRed, model.SeverityYellow, model.SeverityGreen}, it.Severity)
		}
	}
}

func TestNormalizeClausesObject(t *testing.T) {
	out := NormalizeClauses(`{"Payment": "Net 30", "IP": "Assigned to client"}`)
	obj, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Net 30", obj["Payment"])
}

func TestNormalizeClausesRawFallback(t *testing.T) {
	raw := "The payment clause says net 30."
	out := NormalizeClauses(raw)
	assert.Equal(t, raw, out)
}
