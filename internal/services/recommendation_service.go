package services

import (
	"math/rand"
	"sync"
	"time"

	"scholarhub_backend/internal/algorithms"
	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RecommendationService interface {
	Recommend(db *gorm.DB, principal auth.Principal) ([]*dto.RecommendationResponse, error)
}

type RecommendationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	scholarshipRepo repositories.ScholarshipRepository

	mu  sync.Mutex // *rand.Rand не потокобезопасен
	rng *rand.Rand
}

// NewRecommendationService - rng nil означает источник от текущего времени
func NewRecommendationService(
	applicationRepo repositories.ApplicationRepository,
	scholarshipRepo repositories.ScholarshipRepository,
	rng *rand.Rand,
) RecommendationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RecommendationServiceImpl{
		applicationRepo: applicationRepo,
		scholarshipRepo: scholarshipRepo,
		rng:             rng,
	}
}

func (s *RecommendationServiceImpl) Recommend(db *gorm.DB, principal auth.Principal) ([]*dto.RecommendationResponse, error) {
	latest, err := s.applicationRepo.FindLatestByUser(db, principal.UserID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	scholarships, err := s.scholarshipRepo.FindActive(db, repositories.OldestFirst)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	var matches []algorithms.Match
	if latest == nil {
		s.mu.Lock()
		matches = algorithms.ColdStart(s.rng, scholarships)
		s.mu.Unlock()
	} else {
		matches = algorithms.Rank(latest, scholarships)
	}

	logger.CtxDebug(db.Statement.Context, "Recommendations computed",
		"cold_start", latest == nil,
		"candidates", len(scholarships),
		"matches", len(matches),
	)

	resp := make([]*dto.RecommendationResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, buildRecommendation(m, latest == nil))
	}
	return resp, nil
}
