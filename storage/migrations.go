package storage

var pgMigration = []string{
	`CREATE TYPE video_status AS ENUM ('new', 'checked', 'has_metadata', 'ready', 'failed')`,
	`CREATE TABLE video (
id uuid PRIMARY KEY,
status video_status NOT NULL,
youtube_id VARCHAR(255) NOT NULL,
url TEXT NOT NULL,
title VARCHAR(255) NOT NULL DEFAULT '',
channel VARCHAR(255) NOT NULL DEFAULT '',
thumbnail TEXT NOT NULL DEFAULT '',
summary TEXT NOT NULL DEFAULT '',
created_at TIMESTAMP WITH TIME ZONE NOT NULL
)`,
	`CREATE INDEX video_status_created_at ON video (status, created_at DESC)`,
	`CREATE TABLE settings (
session_id VARCHAR(255) PRIMARY KEY,
api_key TEXT NOT NULL,
updated_at TIMESTAMP WITH TIME ZONE NOT NULL
)`,
}
