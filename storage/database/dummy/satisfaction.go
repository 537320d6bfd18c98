package dummydb

import (
	"context"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/satisfaction"
)

type surveyRepository struct {
	db *surveyTable
}

var _ satisfaction.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *DB) satisfaction.Repository {
	return &surveyRepository{db: db.survey}
}

func (repo *surveyRepository) GetLatestSurvey(_ context.Context, period core.Period, _ ...core.DBExecutor) (satisfaction.Survey, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	idx := -1
	for i, s := range repo.db.rows {
		if s.Period == period && (idx < 0 || s.Date >= repo.db.rows[idx].Date) {
			idx = i
		}
	}
	if idx < 0 {
		return satisfaction.Survey{}, satisfaction.ErrNotFound
	}
	return copySurvey(repo.db.rows[idx]), nil
}

func (repo *surveyRepository) UpsertSurvey(_ context.Context, survey satisfaction.Survey, _ ...core.DBExecutor) (satisfaction.Survey, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	survey = copySurvey(survey)
	for i, s := range repo.db.rows {
		if s.Period == survey.Period && s.Date == survey.Date {
			survey.ID = s.ID
			repo.db.rows[i] = survey
			return copySurvey(survey), nil
		}
	}
	survey.ID = core.NewID()
	repo.db.rows = append(repo.db.rows, survey)
	return copySurvey(survey), nil
}

func copySurvey(s satisfaction.Survey) satisfaction.Survey {
	s.Categories = append([]satisfaction.Category(nil), s.Categories...)
	return s
}
