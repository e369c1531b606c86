package algorithms

import (
	"math/rand"
	"testing"

	"scholarhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scholarship(id, name, category, state string) models.Scholarship {
	s := models.Scholarship{Name: name, Category: category, State: state}
	s.ID = id
	return s
}

func TestScoreWarmPathExample(t *testing.T) {
	app := &models.Application{
		CGPA:   8.5,
		Income: 250000,
		Gender: "Female",
		State:  "Kerala",
		Course: "B.Tech Engineering",
	}
	s := scholarship("s1", "Merit Award", "Merit-Based", "All India")

	score, tags := Score(app, &s)

	assert.Equal(t, 40, score)
	assert.Equal(t, []string{"High CGPA", "State eligibility match"}, tags)
}

func TestScoreEngineeringMeritApplicant(t *testing.T) {
	app := &models.Application{CGPA: 9, Income: 250000, Gender: "Female", State: "TN", Course: "B.Tech Engineering"}
	s := scholarship("e", "Engineering Excellence", "Merit-Based", "TN")

	score, tags := Score(app, &s)

	assert.Equal(t, 50, score)
	assert.Equal(t, []string{"High CGPA", "State eligibility match", "Course relevance"}, tags)

	got := Rank(app, []models.Scholarship{s})
	require.Len(t, got, 1)
	assert.Equal(t, "High CGPA, State eligibility match, Course relevance", got[0].Reason)
}

func TestScoreAllRulesInTableOrder(t *testing.T) {
	app := &models.Application{CGPA: 9, Income: 100000, Gender: "Female", State: "Goa", Course: "Mechanical ENGINEERING"}

	women := scholarship("w", "Women in Engineering", "Women", "Goa")
	score, tags := Score(app, &women)

	assert.Equal(t, 50, score)
	assert.Equal(t, []string{"Gender-based eligibility", "State eligibility match", "Course relevance"}, tags)
}

func TestScoreBoundaries(t *testing.T) {
	merit := scholarship("m", "Merit", "Merit-Based", "Nowhere")
	need := scholarship("n", "Need", "Need-Based", "Nowhere")

	s, _ := Score(&models.Application{CGPA: 8}, &merit)
	assert.Equal(t, 25, s, "cgpa of exactly 8 qualifies")

	s, _ = Score(&models.Application{CGPA: 7.99}, &merit)
	assert.Equal(t, 0, s)

	s, _ = Score(&models.Application{Income: 300000}, &need)
	assert.Equal(t, 25, s, "income of exactly 300000 qualifies")

	s, _ = Score(&models.Application{Income: 300001}, &need)
	assert.Equal(t, 0, s)
}

func TestRankDropsZeroSortsAndTruncates(t *testing.T) {
	app := &models.Application{CGPA: 9, State: "Goa", Course: "Arts"}

	list := []models.Scholarship{
		scholarship("zero", "Unrelated", "Sports", "Delhi"),
		scholarship("state1", "Local A", "Sports", "Goa"),
		scholarship("merit", "Merit", "Merit-Based", "Goa"),
		scholarship("state2", "Local B", "Sports", "All India"),
		scholarship("state3", "Local C", "Sports", "Goa"),
		scholarship("state4", "Local D", "Sports", "Goa"),
		scholarship("state5", "Local E", "Sports", "Goa"),
	}

	got := Rank(app, list)

	require.Len(t, got, MaxRecommendations)
	assert.Equal(t, "merit", got[0].Scholarship.ID)
	assert.Equal(t, 40, got[0].Score)
	assert.Equal(t, "High CGPA, State eligibility match", got[0].Reason)

	// равные оценки сохраняют порядок перечисления
	ids := []string{}
	for _, m := range got[1:] {
		ids = append(ids, m.Scholarship.ID)
		assert.Equal(t, 15, m.Score)
	}
	assert.Equal(t, []string{"state1", "state2", "state3", "state4"}, ids)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRankEmptyWhenNothingMatches(t *testing.T) {
	app := &models.Application{State: "Goa"}
	got := Rank(app, []models.Scholarship{scholarship("a", "A", "Sports", "Delhi")})
	assert.Empty(t, got)
}

func TestColdStart(t *testing.T) {
	list := make([]models.Scholarship, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		list = append(list, scholarship(id, id, "", ""))
	}

	got := ColdStart(rand.New(rand.NewSource(42)), list)

	require.Len(t, got, MaxRecommendations)
	seen := map[string]bool{}
	for _, m := range got {
		assert.GreaterOrEqual(t, m.Score, 70)
		assert.LessOrEqual(t, m.Score, 95)
		assert.Equal(t, ColdStartReason, m.Reason)
		assert.False(t, seen[m.Scholarship.ID], "no duplicates")
		seen[m.Scholarship.ID] = true
	}

	assert.Len(t, ColdStart(rand.New(rand.NewSource(1)), list[:2]), 2)
	assert.Empty(t, ColdStart(rand.New(rand.NewSource(1)), nil))
}
