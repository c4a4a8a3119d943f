package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"pdf-docat-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// ---- users ----

const userColumns = "id, email, password, name, role, tier, credits_used, credits_limit, is_active, last_active, created_at"

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Role, &u.Tier,
		&u.CreditsUsed, &u.CreditsLimit, &u.IsActive, &u.LastActive, &u.CreatedAt,
	)
}

func (c *Client) CreateUser(user *models.User) error {
	err := c.db.QueryRow(`
		INSERT INTO users (email, password, name, role, tier, credits_used, credits_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, last_active, created_at
	`, user.Email, user.Password, user.Name, user.Role, user.Tier,
		user.CreditsUsed, user.CreditsLimit, user.IsActive,
	).Scan(&user.ID, &user.LastActive, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (c *Client) GetUser(userID int64) (*models.User, error) {
	var user models.User
	err := scanUser(c.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID), &user)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (c *Client) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := scanUser(c.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email), &user)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (c *Client) ListUsers(offset, limit int) ([]models.User, error) {
	rows, err := c.db.Query(`
		SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (c *Client) UpdateUser(user *models.User) error {
	_, err := c.db.Exec(`
		UPDATE users
		SET password = $1, name = $2, role = $3, tier = $4,
		    credits_used = $5, credits_limit = $6, is_active = $7
		WHERE id = $8
	`, user.Password, user.Name, user.Role, user.Tier,
		user.CreditsUsed, user.CreditsLimit, user.IsActive, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (c *Client) DeleteUser(userID int64) error {
	res, err := c.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Client) UpdateUserLastActive(userID int64) error {
	_, err := c.db.Exec(`UPDATE users SET last_active = NOW() WHERE id = $1`, userID)
	return err
}

// UseCredits atomically charges a user. It fails without side effects when
// the charge would exceed the user's limit, and records a credit_logs row
// when it succeeds.
func (c *Client) UseCredits(userID int64, amount int, documentID int64, description string) (bool, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE users
		SET credits_used = credits_used + $1
		WHERE id = $2 AND credits_used + $1 <= credits_limit
	`, amount, userID)
	if err != nil {
		return false, fmt.Errorf("failed to charge credits: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`
		INSERT INTO credit_logs (user_id, amount, document_id, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, documentID, description); err != nil {
		return false, fmt.Errorf("failed to record credit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit credit charge: %w", err)
	}
	return true, nil
}

func (c *Client) GetCredits(userID int64) (used, limit int, err error) {
	err = c.db.QueryRow(`
		SELECT credits_used, credits_limit FROM users WHERE id = $1
	`, userID).Scan(&used, &limit)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get credits: %w", err)
	}
	return used, limit, nil
}

// ---- processing logs ----

const logColumns = "id, user_id, file_name, file_size, file_hash, engine, status, processing_time, extracted_content, file_annotations, credits_used, timestamp"

func scanLog(row interface{ Scan(...interface{}) error }, l *models.ProcessingLog) error {
	return row.Scan(
		&l.ID, &l.UserID, &l.FileName, &l.FileSize, &l.FileHash, &l.Engine,
		&l.Status, &l.ProcessingTime, &l.ExtractedContent, &l.FileAnnotations,
		&l.CreditsUsed, &l.Timestamp,
	)
}

func (c *Client) CreateProcessingLog(plog *models.ProcessingLog) error {
	err := c.db.QueryRow(`
		INSERT INTO processing_logs (user_id, file_name, file_size, file_hash, engine, status, processing_time, extracted_content, file_annotations, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, timestamp
	`, plog.UserID, plog.FileName, plog.FileSize, plog.FileHash, plog.Engine,
		plog.Status, plog.ProcessingTime, nullableJSON(plog.ExtractedContent),
		nullableJSON(plog.FileAnnotations), plog.CreditsUsed,
	).Scan(&plog.ID, &plog.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create processing log: %w", err)
	}
	return nil
}

// CompleteProcessingLog applies the single completion mutation a log row
// receives after creation.
func (c *Client) CompleteProcessingLog(plog *models.ProcessingLog) error {
	_, err := c.db.Exec(`
		UPDATE processing_logs
		SET status = $1, processing_time = $2, extracted_content = $3, file_annotations = $4, credits_used = $5
		WHERE id = $6
	`, plog.Status, plog.ProcessingTime, nullableJSON(plog.ExtractedContent),
		nullableJSON(plog.FileAnnotations), plog.CreditsUsed, plog.ID)
	if err != nil {
		return fmt.Errorf("failed to update processing log: %w", err)
	}
	return nil
}

func (c *Client) MarkProcessingLogError(logID int64) error {
	_, err := c.db.Exec(`
		UPDATE processing_logs SET status = 'error' WHERE id = $1
	`, logID)
	return err
}

func (c *Client) GetProcessingLog(logID int64) (*models.ProcessingLog, error) {
	var plog models.ProcessingLog
	err := scanLog(c.db.QueryRow(`
		SELECT `+logColumns+` FROM processing_logs WHERE id = $1
	`, logID), &plog)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get processing log: %w", err)
	}
	return &plog, nil
}

func (c *Client) ListProcessingLogs(userID int64, offset, limit int) ([]models.ProcessingLog, error) {
	rows, err := c.db.Query(`
		SELECT `+logColumns+` FROM processing_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ProcessingLog
	for rows.Next() {
		var plog models.ProcessingLog
		if err := scanLog(rows, &plog); err != nil {
			return nil, fmt.Errorf("failed to scan processing log: %w", err)
		}
		logs = append(logs, plog)
	}
	return logs, rows.Err()
}

// FindCompletedLogByHash returns the newest completed log for a file hash,
// used as the durable extraction cache behind Redis.
func (c *Client) FindCompletedLogByHash(hash string, engine models.EngineType) (*models.ProcessingLog, error) {
	var plog models.ProcessingLog
	err := scanLog(c.db.QueryRow(`
		SELECT `+logColumns+` FROM processing_logs
		WHERE file_hash = $1 AND engine = $2 AND status = 'completed'
		ORDER BY timestamp DESC
		LIMIT 1
	`, hash, engine), &plog)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up cached log: %w", err)
	}
	return &plog, nil
}

// ---- settings ----

func (c *Client) GetSetting(key string) (*models.Setting, error) {
	var s models.Setting
	err := c.db.QueryRow(`
		SELECT key, value, description, updated_at FROM settings WHERE key = $1
	`, key).Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &s, nil
}

func (c *Client) ListSettings() ([]models.Setting, error) {
	rows, err := c.db.Query(`
		SELECT key, value, description, updated_at FROM settings ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (c *Client) UpsertSetting(setting *models.Setting) error {
	err := c.db.QueryRow(`
		INSERT INTO settings (key, value, description, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    description = COALESCE(EXCLUDED.description, settings.description),
		    updated_at = NOW()
		RETURNING updated_at
	`, setting.Key, setting.Value, setting.Description).Scan(&setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

// nullableJSON maps an empty raw message to SQL NULL so jsonb columns stay
// NULL instead of holding empty strings.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
