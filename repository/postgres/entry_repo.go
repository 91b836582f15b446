package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/repository"
)

const entryColumns = `
	date, full_date_string, consecutive_day, accumulated_count,
	reflection, life_map, work, week_goals, gamification_notes,
	long_term_plan, short_term_plan, english_practice, japanese_practice,
	custom_notes_title, custom_notes, saved_at
`

type entryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository returns a Postgres-backed implementation of EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) repository.EntryRepository {
	return &entryRepository{pool: pool}
}

func (r *entryRepository) GetByDate(ctx context.Context, userID, date string) (*domain.DiaryEntry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM diary_entries
	WHERE user_id = $1 AND date = $2
	`
	row := r.pool.QueryRow(ctx, query, userID, date)
	return scanEntry(row)
}

func (r *entryRepository) Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM diary_entries
	WHERE user_id = $1
	ORDER BY saved_at DESC
	LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, userID)
	return scanEntry(row)
}

func (r *entryRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM diary_entries
	WHERE user_id = $1
	ORDER BY saved_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.DiaryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *entryRepository) Upsert(ctx context.Context, userID string, entry *domain.DiaryEntry) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO diary_entries (
		user_id, date, full_date_string, consecutive_day, accumulated_count,
		reflection, life_map, work, week_goals, gamification_notes,
		long_term_plan, short_term_plan, english_practice, japanese_practice,
		custom_notes_title, custom_notes, saved_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (user_id, date) DO UPDATE
	SET full_date_string = EXCLUDED.full_date_string,
		consecutive_day = EXCLUDED.consecutive_day,
		accumulated_count = EXCLUDED.accumulated_count,
		reflection = EXCLUDED.reflection,
		life_map = EXCLUDED.life_map,
		work = EXCLUDED.work,
		week_goals = EXCLUDED.week_goals,
		gamification_notes = EXCLUDED.gamification_notes,
		long_term_plan = EXCLUDED.long_term_plan,
		short_term_plan = EXCLUDED.short_term_plan,
		english_practice = EXCLUDED.english_practice,
		japanese_practice = EXCLUDED.japanese_practice,
		custom_notes_title = EXCLUDED.custom_notes_title,
		custom_notes = EXCLUDED.custom_notes,
		saved_at = EXCLUDED.saved_at
	`

	_, err := r.pool.Exec(ctx, query,
		userID,
		entry.Date,
		entry.FullDateString,
		entry.ConsecutiveDay,
		entry.AccumulatedCount,
		entry.Reflection,
		entry.LifeMap,
		marshalWork(entry.Work),
		entry.WeekGoals,
		entry.GamificationNotes,
		entry.LongTermPlan,
		entry.ShortTermPlan,
		entry.EnglishPractice,
		entry.JapanesePractice,
		entry.CustomNotesTitle,
		entry.CustomNotes,
		entry.Timestamp,
	)
	return err
}

func scanEntry(row interface {
	Scan(dest ...interface{}) error
}) (*domain.DiaryEntry, error) {
	var entry domain.DiaryEntry
	var work []byte

	if err := row.Scan(
		&entry.Date,
		&entry.FullDateString,
		&entry.ConsecutiveDay,
		&entry.AccumulatedCount,
		&entry.Reflection,
		&entry.LifeMap,
		&work,
		&entry.WeekGoals,
		&entry.GamificationNotes,
		&entry.LongTermPlan,
		&entry.ShortTermPlan,
		&entry.EnglishPractice,
		&entry.JapanesePractice,
		&entry.CustomNotesTitle,
		&entry.CustomNotes,
		&entry.Timestamp,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	// Entries written before the structured work log may hold a bare string.
	items, err := domain.DecodeWork(work)
	if err != nil {
		return nil, err
	}
	entry.Work = items

	return &entry, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > repository.HistoryLimit {
		return repository.HistoryLimit
	}
	return limit
}
