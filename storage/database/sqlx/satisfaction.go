package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/satisfaction"
)

const surveyColumns = `id, period, date::text AS date,
	first_time_resolution_very_good, first_time_resolution_good, first_time_resolution_neutral,
	first_time_resolution_bad, first_time_resolution_very_bad,
	closing_time_very_good, closing_time_good, closing_time_neutral, closing_time_bad, closing_time_very_bad,
	service_quality_very_good, service_quality_good, service_quality_neutral, service_quality_bad, service_quality_very_bad,
	comments, created_by, created_at`

type surveyRow struct {
	ID                          string      `db:"id"`
	Period                      string      `db:"period"`
	Date                        string      `db:"date"`
	FirstTimeResolutionVeryGood int         `db:"first_time_resolution_very_good"`
	FirstTimeResolutionGood     int         `db:"first_time_resolution_good"`
	FirstTimeResolutionNeutral  int         `db:"first_time_resolution_neutral"`
	FirstTimeResolutionBad      int         `db:"first_time_resolution_bad"`
	FirstTimeResolutionVeryBad  int         `db:"first_time_resolution_very_bad"`
	ClosingTimeVeryGood         int         `db:"closing_time_very_good"`
	ClosingTimeGood             int         `db:"closing_time_good"`
	ClosingTimeNeutral          int         `db:"closing_time_neutral"`
	ClosingTimeBad              int         `db:"closing_time_bad"`
	ClosingTimeVeryBad          int         `db:"closing_time_very_bad"`
	ServiceQualityVeryGood      int         `db:"service_quality_very_good"`
	ServiceQualityGood          int         `db:"service_quality_good"`
	ServiceQualityNeutral       int         `db:"service_quality_neutral"`
	ServiceQualityBad           int         `db:"service_quality_bad"`
	ServiceQualityVeryBad       int         `db:"service_quality_very_bad"`
	Comments                    null.String `db:"comments"`
	CreatedBy                   string      `db:"created_by"`
	CreatedAt                   time.Time   `db:"created_at"`
}

func bucketValues(b satisfaction.Buckets) []interface{} {
	return []interface{}{b.VeryGood, b.Good, b.Neutral, b.Bad, b.VeryBad}
}

func (row surveyRow) survey() satisfaction.Survey {
	s := satisfaction.Survey{
		ID:        row.ID,
		Period:    core.Period(row.Period),
		Date:      row.Date,
		Comments:  row.Comments.String,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		Categories: []satisfaction.Category{
			{ID: satisfaction.CategoryFirstTimeResolution, Buckets: satisfaction.Buckets{
				VeryGood: row.FirstTimeResolutionVeryGood,
				Good:     row.FirstTimeResolutionGood,
				Neutral:  row.FirstTimeResolutionNeutral,
				Bad:      row.FirstTimeResolutionBad,
				VeryBad:  row.FirstTimeResolutionVeryBad,
			}},
			{ID: satisfaction.CategoryClosingTime, Buckets: satisfaction.Buckets{
				VeryGood: row.ClosingTimeVeryGood,
				Good:     row.ClosingTimeGood,
				Neutral:  row.ClosingTimeNeutral,
				Bad:      row.ClosingTimeBad,
				VeryBad:  row.ClosingTimeVeryBad,
			}},
			{ID: satisfaction.CategoryServiceQuality, Buckets: satisfaction.Buckets{
				VeryGood: row.ServiceQualityVeryGood,
				Good:     row.ServiceQualityGood,
				Neutral:  row.ServiceQualityNeutral,
				Bad:      row.ServiceQualityBad,
				VeryBad:  row.ServiceQualityVeryBad,
			}},
		},
	}
	s.Normalize() // sets the titles
	return s
}

type surveyRepository struct {
	base
}

var _ satisfaction.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *sqlx.DB) satisfaction.Repository {
	return &surveyRepository{base{db: db}}
}

func (repo surveyRepository) GetLatestSurvey(ctx context.Context, period core.Period, exec ...core.DBExecutor) (satisfaction.Survey, error) {
	var rows []surveyRow
	q := "SELECT " + surveyColumns + " FROM customer_satisfaction WHERE period = ? ORDER BY customer_satisfaction.date DESC LIMIT 1"
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, string(period)); err != nil {
		return satisfaction.Survey{}, errors.Wrap(err, "getting latest survey")
	}
	if len(rows) == 0 {
		return satisfaction.Survey{}, satisfaction.ErrNotFound
	}
	return rows[0].survey(), nil
}

func (repo surveyRepository) UpsertSurvey(ctx context.Context, survey satisfaction.Survey, exec ...core.DBExecutor) (satisfaction.Survey, error) {
	survey.Normalize()
	args := []interface{}{core.NewID(), string(survey.Period), survey.Date}
	for _, id := range satisfaction.CategoryIDs {
		args = append(args, bucketValues(survey.Category(id).Buckets)...)
	}
	args = append(args, null.NewString(survey.Comments, survey.Comments != ""), survey.CreatedBy, survey.CreatedAt.UTC())

	q := `INSERT INTO customer_satisfaction (id, period, date,
		first_time_resolution_very_good, first_time_resolution_good, first_time_resolution_neutral,
		first_time_resolution_bad, first_time_resolution_very_bad,
		closing_time_very_good, closing_time_good, closing_time_neutral, closing_time_bad, closing_time_very_bad,
		service_quality_very_good, service_quality_good, service_quality_neutral, service_quality_bad, service_quality_very_bad,
		comments, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (period, date) DO UPDATE SET
		first_time_resolution_very_good = EXCLUDED.first_time_resolution_very_good,
		first_time_resolution_good = EXCLUDED.first_time_resolution_good,
		first_time_resolution_neutral = EXCLUDED.first_time_resolution_neutral,
		first_time_resolution_bad = EXCLUDED.first_time_resolution_bad,
		first_time_resolution_very_bad = EXCLUDED.first_time_resolution_very_bad,
		closing_time_very_good = EXCLUDED.closing_time_very_good,
		closing_time_good = EXCLUDED.closing_time_good,
		closing_time_neutral = EXCLUDED.closing_time_neutral,
		closing_time_bad = EXCLUDED.closing_time_bad,
		closing_time_very_bad = EXCLUDED.closing_time_very_bad,
		service_quality_very_good = EXCLUDED.service_quality_very_good,
		service_quality_good = EXCLUDED.service_quality_good,
		service_quality_neutral = EXCLUDED.service_quality_neutral,
		service_quality_bad = EXCLUDED.service_quality_bad,
		service_quality_very_bad = EXCLUDED.service_quality_very_bad,
		comments = EXCLUDED.comments,
		created_by = EXCLUDED.created_by,
		created_at = EXCLUDED.created_at
		RETURNING ` + surveyColumns

	var rows []surveyRow
	if err := selectRows(ctx, repo.getExec(exec), &rows, q, args...); err != nil {
		return satisfaction.Survey{}, errors.Wrap(err, "upserting survey")
	}
	if len(rows) == 0 {
		return satisfaction.Survey{}, errors.New("upserting survey: no row returned")
	}
	return rows[0].survey(), nil
}
