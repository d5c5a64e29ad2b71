package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	category        TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT 'active',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	completed_at    DATETIME,
	archived_at     DATETIME,
	remind_at       DATETIME,
	notification_id TEXT NOT NULL DEFAULT '',
	reminder_state  TEXT NOT NULL DEFAULT 'none'
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	todo_id    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	fire_at    DATETIME NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	read       INTEGER NOT NULL DEFAULT 0,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS day_metrics (
	day    TEXT PRIMARY KEY,
	mood   INTEGER,
	weight REAL,
	rating INTEGER
);

CREATE INDEX IF NOT EXISTS idx_todos_state ON todos(state);
CREATE INDEX IF NOT EXISTS idx_todos_category ON todos(category);
CREATE INDEX IF NOT EXISTS idx_todos_reminder_state ON todos(reminder_state);
CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_todo_id ON notifications(todo_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
