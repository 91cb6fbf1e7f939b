package db

import "database/sql"

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			artists TEXT NOT NULL DEFAULT '',
			image_uri TEXT NOT NULL DEFAULT '',
			media_uri TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			downloadable INTEGER NOT NULL DEFAULT 1,
			lyrics TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			listens INTEGER NOT NULL DEFAULT 0,
			likes INTEGER NOT NULL DEFAULT 0,
			downloads INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_tracks_media_uri ON tracks(media_uri)
			WHERE media_uri != '';
		CREATE INDEX IF NOT EXISTS idx_tracks_position ON tracks(position);

		CREATE TABLE IF NOT EXISTS favorites (
			track_id INTEGER PRIMARY KEY REFERENCES tracks(id) ON DELETE CASCADE,
			added_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS download_jobs (
			id TEXT PRIMARY KEY,
			track_id INTEGER NOT NULL,
			source_uri TEXT NOT NULL,
			destination_path TEXT NOT NULL,
			requires_network INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'queued',
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_download_jobs_status ON download_jobs(status);
	`)
	if err != nil {
		return err
	}

	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return err
	}

	if version < 2 {
		// listen history arrived with schema 2
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS listen_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
				listened_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_listen_history_track ON listen_history(track_id);
		`)
		if err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		_, err = db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", currentSchemaVersion)
		if err != nil {
			return err
		}
	}
	return nil
}
