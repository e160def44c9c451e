package sqlite

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/concierge-chat/concierge/pkg/chat"
)

// Append adds a message to the session's transcript.
func (t *transcriptStore) Append(sessionID string, msg chat.Message) error {
	sentAt := msg.Time
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	_, err := t.db.ExecContext(context.TODO(), `
		INSERT INTO transcript (session_id, seq, role, content, sent_at)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM transcript WHERE session_id = ?), 0) + 1,
		        ?, ?, ?)`,
		sessionID, sessionID,
		string(msg.Role), msg.Content, sentAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append message: %w", err)
	}

	return nil
}

// Recent returns the n most recent messages for a session in chronological order.
func (t *transcriptStore) Recent(sessionID string, n int) ([]chat.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := t.db.QueryContext(context.TODO(), `
		SELECT role, content, sent_at
		FROM transcript
		WHERE session_id = ?
		ORDER BY seq DESC
		LIMIT ?`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg    chat.Message
			role   string
			sentAt string
		)
		if err := rows.Scan(&role, &msg.Content, &sentAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan message: %w", err)
		}
		msg.Role = chat.Role(role)
		if ts, err := time.Parse(time.RFC3339Nano, sentAt); err == nil {
			msg.Time = ts
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: recent rows: %w", err)
	}

	// Reverse to chronological order.
	slices.Reverse(msgs)
	return msgs, nil
}

// Purge removes all transcript data for a session.
func (t *transcriptStore) Purge(sessionID string) error {
	if _, err := t.db.ExecContext(context.TODO(), "DELETE FROM transcript WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("sqlite: purge transcript: %w", err)
	}
	return nil
}
