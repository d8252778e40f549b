package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is current.
const sentinelTable = "public.evidence_records"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  tenant_id                    TEXT        NOT NULL,
  control_number               TEXT        NOT NULL,
  title                        TEXT        NOT NULL,
  document_type_code           TEXT        NOT NULL,
  status                       TEXT        NOT NULL DEFAULT 'draft',
  origin                       TEXT        NOT NULL DEFAULT 'manual',
  current_version              INTEGER     NOT NULL DEFAULT 1 CHECK (current_version >= 1),
  folder_id                    TEXT,
  elements                     JSONB       NOT NULL DEFAULT '[]',
  tags                         JSONB       NOT NULL DEFAULT '[]',
  keywords                     JSONB       NOT NULL DEFAULT '[]',
  effective_date               TIMESTAMPTZ,
  expiry_date                  TIMESTAMPTZ,
  next_review_date             TIMESTAMPTZ,
  related_document_ids         JSONB       NOT NULL DEFAULT '[]',
  supersedes_control_number    TEXT,
  superseded_by_control_number TEXT,
  view_count                   INTEGER     NOT NULL DEFAULT 0,
  last_viewed_at               TIMESTAMPTZ,
  created_by                   TEXT        NOT NULL,
  created_at                   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_documents_control_number",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_documents_tenant_control_number ON documents (tenant_id, lower(control_number));`,
	},
	{
		Name: "create_index_documents_tenant_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_tenant_status ON documents (tenant_id, status);`,
	},
	{
		Name: "create_index_documents_next_review_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_next_review_date ON documents (tenant_id, next_review_date) WHERE next_review_date IS NOT NULL;`,
	},
	{
		Name: "create_table_document_versions",
		SQL: `CREATE TABLE IF NOT EXISTS document_versions (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id    UUID        NOT NULL REFERENCES documents (id),
  version_number INTEGER     NOT NULL CHECK (version_number >= 1),
  file_reference TEXT        NOT NULL,
  content_type   TEXT        NOT NULL,
  extracted_text TEXT,
  created_by     TEXT        NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (document_id, version_number)
);`,
	},
	{
		Name: "create_table_audit_element_links",
		SQL: `CREATE TABLE IF NOT EXISTS audit_element_links (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id    UUID        NOT NULL REFERENCES documents (id),
  element_number INTEGER     NOT NULL CHECK (element_number BETWEEN 1 AND 14),
  source         TEXT        NOT NULL CHECK (source IN ('manual', 'auto')),
  confidence     INTEGER     NOT NULL CHECK (confidence BETWEEN 0 AND 100),
  created_by     TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (document_id, element_number, source)
);`,
	},
	{
		Name: "create_index_audit_element_links_element",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_element_links_element ON audit_element_links (element_number, document_id);`,
	},
	{
		Name: "create_table_evidence_mappings",
		SQL: `CREATE TABLE IF NOT EXISTS evidence_mappings (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  tenant_id            TEXT        NOT NULL,
  element_number       INTEGER     NOT NULL CHECK (element_number BETWEEN 1 AND 14),
  evidence_source      TEXT        NOT NULL,
  source_id            TEXT,
  external_question_id TEXT,
  category             TEXT,
  notes                TEXT,
  is_active            BOOLEAN     NOT NULL DEFAULT true,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_distributions",
		SQL: `CREATE TABLE IF NOT EXISTS distributions (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  tenant_id        TEXT        NOT NULL,
  document_id      UUID        NOT NULL REFERENCES documents (id),
  recipient_id     TEXT        NOT NULL,
  distributed_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  acknowledged     BOOLEAN     NOT NULL DEFAULT false,
  acknowledged_at  TIMESTAMPTZ,
  reminder_count   INTEGER     NOT NULL DEFAULT 0 CHECK (reminder_count >= 0),
  last_reminder_at TIMESTAMPTZ,
  required_by_date TIMESTAMPTZ,
  UNIQUE (document_id, recipient_id)
);`,
	},
	{
		Name: "create_index_distributions_pending",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_distributions_pending ON distributions (tenant_id, document_id) WHERE acknowledged = false;`,
	},
	{
		Name: "create_table_evidence_records",
		SQL: `CREATE TABLE IF NOT EXISTS evidence_records (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  tenant_id      TEXT        NOT NULL,
  element_number INTEGER     NOT NULL CHECK (element_number BETWEEN 1 AND 14),
  source         TEXT        NOT NULL,
  reference_id   TEXT,
  title          TEXT        NOT NULL,
  record_date    TIMESTAMPTZ NOT NULL,
  created_by     TEXT        NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_evidence_records_element_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_evidence_records_element_date ON evidence_records (tenant_id, element_number, record_date);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{"component": "database", "db_host": dbHost})

	log.WithFields(logrus.Fields{"event": "db_migration_check", "status": "starting"}).Info("checking schema")

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"status":      "error",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"status":      "success",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithFields(logrus.Fields{"event": "db_migration_start", "status": "in_progress"}).Info("migrating schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Debug("migration step applied")
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"status":      "success",
		"steps":       len(steps),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}
