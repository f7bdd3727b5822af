package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"summabot/internal/domain"
)

// GetUserSettings returns the stored settings or defaults for unknown users.
func (d *Database) GetUserSettings(ctx context.Context, userID int64) (domain.UserSettings, error) {
	query := "select input_source from user_settings where user_id = ?"

	var raw string
	err := d.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserSettings{UserID: userID, Source: domain.SourcePaste}, nil
	}
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("execute query: %w", err)
	}

	source, ok := domain.ParseSource(raw)
	if !ok {
		d.log.WarnContext(ctx, "Unknown input source in DB, using default",
			"userID", userID,
			"inputSource", raw)

		source = domain.SourcePaste
	}

	return domain.UserSettings{UserID: userID, Source: source}, nil
}

func (d *Database) UpsertInputSource(ctx context.Context, userID int64, source domain.Source) error {
	if _, ok := domain.ParseSource(string(source)); !ok {
		return fmt.Errorf("unknown input source %q", source)
	}

	query := `insert into user_settings (user_id, input_source) values (?, ?)
	on conflict(user_id) do update set input_source = excluded.input_source`

	if _, err := d.db.ExecContext(ctx, query, userID, string(source)); err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	return nil
}
