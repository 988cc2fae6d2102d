package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"ewintr.nl/tubescribe/model"
	"github.com/lib/pq"
)

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(pgInfo PostgresInfo) (*Postgres, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgInfo.Host, pgInfo.Port, pgInfo.User, pgInfo.Password, pgInfo.Database)
	db, err := sql.Open("postgres", pgConnStr)
	if err != nil {
		return &Postgres{}, err
	}
	if err := db.Ping(); err != nil {
		return &Postgres{}, err
	}

	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return &Postgres{}, err
	}

	return p, nil
}

type PostgresVideoRepository struct {
	*Postgres
}

func NewPostgresVideoRepository(postgres *Postgres) *PostgresVideoRepository {
	return &PostgresVideoRepository{postgres}
}

func (p *PostgresVideoRepository) Save(v *model.Video) error {
	query := `INSERT INTO video (id, status, youtube_id, url, title, channel, thumbnail, summary, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id)
DO UPDATE SET
  status = EXCLUDED.status,
  title = EXCLUDED.title,
  channel = EXCLUDED.channel,
  thumbnail = EXCLUDED.thumbnail,
  summary = EXCLUDED.summary;`
	_, err := p.db.Exec(query, v.ID, v.Status, v.Reference.ID, v.Reference.URL, v.Info.Title, v.Info.Channel, v.Info.Thumbnail, v.Summary, v.CreatedAt)

	return err
}

func (p *PostgresVideoRepository) FindByStatus(statuses ...model.VideoStatus) ([]*model.Video, error) {
	query := `SELECT id, status, youtube_id, url, title, channel, thumbnail, summary, created_at
FROM video
WHERE status::text = ANY($1)
ORDER BY created_at DESC
LIMIT 100`
	strs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		strs = append(strs, string(s))
	}
	rows, err := p.db.Query(query, pq.Array(strs))
	if err != nil {
		return []*model.Video{}, err
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		v := &model.Video{}
		if err := rows.Scan(&v.ID, &v.Status, &v.Reference.ID, &v.Reference.URL, &v.Info.Title, &v.Info.Channel, &v.Info.Thumbnail, &v.Summary, &v.CreatedAt); err != nil {
			return []*model.Video{}, err
		}
		v.Info.ID = v.Reference.ID
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

type PostgresSettingsRepository struct {
	*Postgres
}

func NewPostgresSettingsRepository(postgres *Postgres) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{postgres}
}

func (p *PostgresSettingsRepository) APIKey(sessionID string) (string, error) {
	var apiKey string
	err := p.db.QueryRow(`SELECT api_key FROM settings WHERE session_id = $1`, sessionID).Scan(&apiKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNotFound
	case err != nil:
		return "", err
	}

	return apiKey, nil
}

func (p *PostgresSettingsRepository) SaveAPIKey(sessionID, apiKey string) error {
	if apiKey == "" {
		_, err := p.db.Exec(`DELETE FROM settings WHERE session_id = $1`, sessionID)
		return err
	}
	_, err := p.db.Exec(`INSERT INTO settings (session_id, api_key, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_id)
DO UPDATE SET api_key = EXCLUDED.api_key, updated_at = NOW();`, sessionID, apiKey)

	return err
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	existing, err := existingMigrations(p.db)
	if err != nil {
		return err
	}

	// compare
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	// execute missing
	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return err
		}

		// register
		if _, err := p.db.Exec(`
INSERT INTO migration
(query) VALUES ($1)
`, query); err != nil {
			return err
		}
	}

	return nil
}

func existingMigrations(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			return nil, fmt.Errorf("could not read migration: %w", err)
		}
		existing = append(existing, query)
	}

	return existing, rows.Err()
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}
