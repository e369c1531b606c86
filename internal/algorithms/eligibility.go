package algorithms

import (
	"math/rand"
	"sort"
	"strings"

	"scholarhub_backend/internal/models"
)

const (
	// MaxRecommendations - размер выдачи рекомендаций
	MaxRecommendations = 5

	DefaultReason   = "General eligibility"
	ColdStartReason = "Top rated opportunity"

	coldScoreMin = 70
	coldScoreMax = 95
)

// EligibilityRule - одно условие таблицы скоринга
type EligibilityRule struct {
	Tag    string
	Points int
	Match  func(app *models.Application, s *models.Scholarship) bool
}

// EligibilityRules проверяются по порядку, теги попадают в reason в этом же порядке
var EligibilityRules = []EligibilityRule{
	{
		Tag:    "High CGPA",
		Points: 25,
		Match: func(app *models.Application, s *models.Scholarship) bool {
			return app.CGPA >= 8 && s.Category == "Merit-Based"
		},
	},
	{
		Tag:    "Low family income",
		Points: 25,
		Match: func(app *models.Application, s *models.Scholarship) bool {
			return app.Income <= 300000 && s.Category == "Need-Based"
		},
	},
	{
		Tag:    "Gender-based eligibility",
		Points: 25,
		Match: func(app *models.Application, s *models.Scholarship) bool {
			return app.Gender == "Female" && s.Category == "Women"
		},
	},
	{
		Tag:    "State eligibility match",
		Points: 15,
		Match: func(app *models.Application, s *models.Scholarship) bool {
			return s.State == app.State || s.State == "All India"
		},
	},
	{
		Tag:    "Course relevance",
		Points: 10,
		Match: func(app *models.Application, s *models.Scholarship) bool {
			return containsFold(app.Course, "engineering") && containsFold(s.Name, "engineering")
		},
	},
}

// Match - стипендия с оценкой соответствия
type Match struct {
	Scholarship *models.Scholarship
	Score       int
	Reason      string
}

// Score прогоняет стипендию через таблицу правил
func Score(app *models.Application, s *models.Scholarship) (int, []string) {
	score := 0
	var tags []string
	for _, rule := range EligibilityRules {
		if rule.Match(app, s) {
			score += rule.Points
			tags = append(tags, rule.Tag)
		}
	}
	return score, tags
}

// Rank оценивает стипендии по последней заявке пользователя.
// Нулевые оценки отбрасываются, сортировка стабильная, иначе порядок
// равных оценок зависел бы от реализации сортировки.
func Rank(app *models.Application, scholarships []models.Scholarship) []Match {
	matches := make([]Match, 0, len(scholarships))
	for i := range scholarships {
		s := &scholarships[i]
		score, tags := Score(app, s)
		if score <= 0 {
			continue
		}
		reason := DefaultReason
		if len(tags) > 0 {
			reason = strings.Join(tags, ", ")
		}
		matches = append(matches, Match{Scholarship: s, Score: score, Reason: reason})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxRecommendations {
		matches = matches[:MaxRecommendations]
	}
	return matches
}

// ColdStart - пользователь еще не подавал заявок: случайные стипендии со
// случайной оценкой в [70, 95].
func ColdStart(rng *rand.Rand, scholarships []models.Scholarship) []Match {
	shuffled := make([]*models.Scholarship, len(scholarships))
	for i := range scholarships {
		shuffled[i] = &scholarships[i]
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) > MaxRecommendations {
		shuffled = shuffled[:MaxRecommendations]
	}

	matches := make([]Match, 0, len(shuffled))
	for _, s := range shuffled {
		matches = append(matches, Match{
			Scholarship: s,
			Score:       coldScoreMin + rng.Intn(coldScoreMax-coldScoreMin+1),
			Reason:      ColdStartReason,
		})
	}
	return matches
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
