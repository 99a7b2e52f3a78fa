package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, status, group_names, driver, editor_url, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryFinishRun = `
		UPDATE runs SET
			status = ?,
			error = ?,
			passed = ?,
			failed = ?,
			finished_at = ?
		WHERE id = ?`

	queryDeleteRun = `DELETE FROM runs WHERE id = ?`
)

// Step queries
const (
	queryInsertStep = `
		INSERT INTO steps (run_id, group_name, name, kind, outcome, error, changes, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	queryDeleteRunSteps = `DELETE FROM steps WHERE run_id = ?`
)

// Snapshot queries
const (
	queryGetSnapshot = `
		SELECT run_id, group_name, label, data, created_at
		FROM snapshots WHERE run_id = ? AND group_name = ? AND label = ?`

	queryUpsertSnapshot = `
		INSERT INTO snapshots (run_id, group_name, label, data, created_at)
		VALUES (?, ?, ?, ?, now())
		ON CONFLICT (run_id, group_name, label) DO UPDATE SET
			data = EXCLUDED.data,
			created_at = now()`

	queryDeleteRunSnapshots = `DELETE FROM snapshots WHERE run_id = ?`
)
