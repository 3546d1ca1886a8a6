package extractor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseCandidates(t *testing.T) {
	raw := `[
		{"date": "2025-03-05", "description": "PLAZA VEA", "amount": -45.50, "currency": "PEN", "category": "groceries", "bank": "BCP"},
		{"date": "2025-03-06", "description": "Sueldo", "amount": 2500, "currency": "PEN", "category": "salary", "bank": "Interbank"}
	]`

	candidates, err := ParseCandidates(raw, testLogger())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "PLAZA VEA", candidates[0].Description)
	assert.Equal(t, "-45.50", candidates[0].Amount.String())
	assert.Equal(t, "BCP", candidates[0].Bank)
	assert.Equal(t, "2500", candidates[1].Amount.String())
}

func TestParseCandidatesStripsFences(t *testing.T) {
	raw := "```json\n[{\"date\": \"2025-03-05\", \"description\": \"x\", \"amount\": -1, \"currency\": \"PEN\", \"category\": \"other\", \"bank\": \"BCP\"}]\n```"

	candidates, err := ParseCandidates(raw, testLogger())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestParseCandidatesSurroundingProse(t *testing.T) {
	raw := "Here are the transactions:\n[{\"date\": \"2025-03-05\", \"description\": \"x\", \"amount\": -1, \"currency\": \"PEN\", \"category\": \"other\", \"bank\": \"BCP\"}]\nLet me know if you need anything else."

	candidates, err := ParseCandidates(raw, testLogger())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestParseCandidatesEmptyArray(t *testing.T) {
	candidates, err := ParseCandidates("[]", testLogger())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestParseCandidatesNonList(t *testing.T) {
	_, err := ParseCandidates(`{"date": "2025-03-05"}`, testLogger())
	assert.ErrorIs(t, err, ErrNotAList)
}

func TestParseCandidatesInvalidJSON(t *testing.T) {
	_, err := ParseCandidates("not json at all", testLogger())
	assert.Error(t, err)
}

func TestParseCandidatesDropsIncomplete(t *testing.T) {
	raw := `[
		{"date": "2025-03-05", "description": "completa", "amount": -1, "currency": "PEN", "category": "other", "bank": "BCP"},
		{"date": "2025-03-06", "description": "sin monto", "currency": "PEN", "category": "other", "bank": "BCP"}
	]`

	candidates, err := ParseCandidates(raw, testLogger())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "completa", candidates[0].Description)
}
