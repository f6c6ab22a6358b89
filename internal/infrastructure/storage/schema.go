package storage

// Schema is applied at startup; every statement is idempotent. The articles
// rows themselves are created by the ingestion side, but the table must
// exist for a fresh database.
const Schema = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ,
	veracity_score INTEGER,
	veracity_claims JSONB,
	veracity_checked_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS article_summaries (
	id BIGSERIAL PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	mode TEXT NOT NULL CHECK (mode IN ('kid', 'pro')),
	summary TEXT NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (article_id, mode)
);

CREATE TABLE IF NOT EXISTS article_jargon (
	id BIGSERIAL PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	term TEXT NOT NULL,
	definition TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT 'intermediate'
);

CREATE INDEX IF NOT EXISTS idx_article_jargon_article ON article_jargon (article_id);
`
