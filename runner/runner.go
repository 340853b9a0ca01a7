package runner

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/enumigo/enumigo/database"
	"github.com/enumigo/enumigo/enum"
	"github.com/enumigo/enumigo/generator"
	"github.com/enumigo/enumigo/loader"
	"github.com/jackc/pgx/v5"
)

// MigrationRecord represents a migration execution record
type MigrationRecord struct {
	ID            int
	MigrationName string
	ExecutedAt    time.Time
	ExecutionTime time.Duration
	ExecutedBy    string
	Status        string
	ErrorMessage  string
	Checksum      string
	TypesAffected string
}

// MigrationLog represents a migration log entry
type MigrationLog struct {
	ID            int
	Timestamp     time.Time
	Level         string
	Message       string
	User          string
	Details       string
	MigrationName string
}

func getConn() (*pgx.Conn, context.Context, error) {
	ctx := context.Background()
	conn, err := database.GetConnection(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get connection: %v", err)
	}
	return conn, ctx, nil
}

func ensureMigrationsTable(conn *pgx.Conn, ctx context.Context) error {
	_, err := conn.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT now(),
		execution_time INTERVAL,
		executed_by TEXT,
		status TEXT DEFAULT 'success',
		error_message TEXT,
		checksum TEXT,
		types_affected TEXT
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %v", err)
	}

	_, err = conn.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS migration_logs (
		id SERIAL PRIMARY KEY,
		timestamp TIMESTAMP DEFAULT now(),
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_name TEXT,
		details TEXT,
		migration_name TEXT
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migration_logs table: %v", err)
	}

	return nil
}

func getCurrentUser() string {
	currentUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return currentUser.Username
}

func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash)
}

func logMigrationActivity(conn *pgx.Conn, ctx context.Context, level, message, migrationName, details string) error {
	userName := getCurrentUser()
	_, err := conn.Exec(ctx, `
		INSERT INTO migration_logs (level, message, user_name, migration_name, details)
		VALUES ($1, $2, $3, $4, $5)
	`, level, message, userName, migrationName, details)
	return err
}

func getAppliedMigrations(conn *pgx.Conn, ctx context.Context) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT filename FROM schema_migrations WHERE status = 'success';`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %v", err)
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, fmt.Errorf("scan filename: %v", err)
		}
		applied[fname] = true
	}
	return applied, nil
}

func getAppliedMigrationsOrdered(conn *pgx.Conn, ctx context.Context) ([]string, error) {
	rows, err := conn.Query(ctx, `SELECT filename FROM schema_migrations WHERE status = 'success' ORDER BY applied_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %v", err)
	}
	defer rows.Close()

	var applied []string
	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, fmt.Errorf("scan filename: %v", err)
		}
		applied = append(applied, fname)
	}
	return applied, nil
}

func getFailedMigrations(conn *pgx.Conn, ctx context.Context) ([]MigrationRecord, error) {
	rows, err := conn.Query(ctx, `SELECT filename, error_message FROM schema_migrations WHERE status = 'failed';`)
	if err != nil {
		return nil, fmt.Errorf("query failed migrations: %v", err)
	}
	defer rows.Close()

	var failed []MigrationRecord
	for rows.Next() {
		var record MigrationRecord
		if err := rows.Scan(&record.MigrationName, &record.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan failed migration: %v", err)
		}
		failed = append(failed, record)
	}
	return failed, nil
}

func getMigrationFiles() ([]string, error) {
	files, err := os.ReadDir(generator.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %v", err)
	}

	var filenames []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".yaml") {
			filenames = append(filenames, f.Name())
		}
	}
	sort.Strings(filenames) // Ensure in order
	return filenames, nil
}

func loadMigration(filename string) ([]byte, []enum.Operation, error) {
	path := filepath.Join(generator.MigrationsDir, filename)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %s: %v", filename, err)
	}
	ops, err := loader.LoadMigrationFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse migration file %s: %w", filename, err)
	}
	if len(ops) == 0 {
		return nil, nil, fmt.Errorf("migration file %s declares no operations", filename)
	}
	return content, ops, nil
}

// TypesAffected lists the enum type names an operation list touches,
// deduplicated, in first-touched order.
func TypesAffected(ops []enum.Operation) string {
	seen := map[string]bool{}
	var names []string
	for _, op := range ops {
		for _, name := range []string{op.Name, op.NewName} {
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ",")
}

// runInTransaction executes fn inside a single transaction: the ambient
// all-or-nothing scope every operation of one migration runs in. Any failure
// rolls back every statement the migration issued, including temporary type
// creation inside the substitution protocol.
func runInTransaction(conn *pgx.Conn, ctx context.Context, fn func(ex *enum.Executor) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(enum.NewExecutor(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func applyMigration(conn *pgx.Conn, ctx context.Context, filename string) error {
	startTime := time.Now()
	content, ops, err := loadMigration(filename)
	if err != nil {
		return err
	}

	logMigrationActivity(conn, ctx, "INFO", fmt.Sprintf("Starting migration: %s", filename), filename, opSummary(ops))

	err = runInTransaction(conn, ctx, func(ex *enum.Executor) error {
		for _, op := range ops {
			if err := op.Apply(ctx, ex); err != nil {
				return fmt.Errorf("applying %s: %w", op, err)
			}
		}
		return nil
	})
	executionTime := time.Since(startTime)

	checksum := calculateChecksum(content)
	userName := getCurrentUser()

	if err != nil {
		logMigrationActivity(conn, ctx, "ERROR", fmt.Sprintf("Migration failed: %s", filename), filename, err.Error())

		_, insertErr := conn.Exec(ctx, `
			INSERT INTO schema_migrations (filename, execution_time, executed_by, status, error_message, checksum, types_affected)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, filename, executionTime, userName, "failed", err.Error(), checksum, TypesAffected(ops))
		if insertErr != nil {
			return fmt.Errorf("recording failed migration %s: %v", filename, insertErr)
		}

		return fmt.Errorf("executing migration %s: %w", filename, err)
	}

	logMigrationActivity(conn, ctx, "SUCCESS", fmt.Sprintf("Migration completed: %s", filename), filename, fmt.Sprintf("Execution time: %v", executionTime))

	_, err = conn.Exec(ctx, `
		INSERT INTO schema_migrations (filename, execution_time, executed_by, status, checksum, types_affected)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, filename, executionTime, userName, "success", checksum, TypesAffected(ops))
	if err != nil {
		return fmt.Errorf("recording migration %s: %v", filename, err)
	}

	return nil
}

func rollbackMigration(conn *pgx.Conn, ctx context.Context, filename string) error {
	startTime := time.Now()
	_, ops, err := loadMigration(filename)
	if err != nil {
		return err
	}

	logMigrationActivity(conn, ctx, "INFO", fmt.Sprintf("Starting rollback: %s", filename), filename, "Rollback execution started")

	// Revert in reverse declaration order; each inverse is computed fresh
	// against the catalog state at this moment, not cached from apply time.
	err = runInTransaction(conn, ctx, func(ex *enum.Executor) error {
		for i := len(ops) - 1; i >= 0; i-- {
			if err := ops[i].Revert(ctx, ex); err != nil {
				return fmt.Errorf("reverting %s: %w", ops[i], err)
			}
		}
		return nil
	})
	executionTime := time.Since(startTime)

	if err != nil {
		logMigrationActivity(conn, ctx, "ERROR", fmt.Sprintf("Rollback failed: %s", filename), filename, err.Error())
		return fmt.Errorf("executing rollback for %s: %w", filename, err)
	}

	logMigrationActivity(conn, ctx, "SUCCESS", fmt.Sprintf("Rollback completed: %s", filename), filename, fmt.Sprintf("Execution time: %v", executionTime))

	_, err = conn.Exec(ctx, `DELETE FROM schema_migrations WHERE filename = $1;`, filename)
	if err != nil {
		return fmt.Errorf("removing migration record for %s: %v", filename, err)
	}

	return nil
}

func opSummary(ops []enum.Operation) string {
	lines := make([]string, len(ops))
	for i, op := range ops {
		lines[i] = op.String()
	}
	return strings.Join(lines, "; ")
}

func ApplyMigrations() error {
	conn, ctx, err := getConn()
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if err := ensureMigrationsTable(conn, ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %v", err)
	}

	failedMigrations, err := getFailedMigrations(conn, ctx)
	if err != nil {
		return fmt.Errorf("check failed migrations: %v", err)
	}

	if len(failedMigrations) > 0 {
		fmt.Println("❌ Found failed migrations that need to be resolved:")
		for _, migration := range failedMigrations {
			fmt.Printf("   - %s: %s\n", migration.MigrationName, migration.ErrorMessage)
		}
		fmt.Println("💡 Please fix the issues and run 'enumigo migrate' again.")
		return fmt.Errorf("failed migrations detected")
	}

	applied, err := getAppliedMigrations(conn, ctx)
	if err != nil {
		return err
	}

	files, err := getMigrationFiles()
	if err != nil {
		return err
	}

	var pending []string
	for _, f := range files {
		if !applied[f] {
			pending = append(pending, f)
		}
	}

	if len(pending) == 0 {
		fmt.Println("✅ No pending migrations.")
		return nil
	}

	fmt.Printf("Applying %d migration(s)...\n", len(pending))
	for _, f := range pending {
		fmt.Printf("Applying: %s\n", f)
		if err := applyMigration(conn, ctx, f); err != nil {
			return err
		}
	}

	fmt.Println("✅ All migrations applied.")
	return nil
}

func RollbackMigrations(steps int) error {
	conn, ctx, err := getConn()
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if err := ensureMigrationsTable(conn, ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %v", err)
	}

	applied, err := getAppliedMigrationsOrdered(conn, ctx)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("✅ No migrations to rollback.")
		return nil
	}

	toRollback := steps
	if toRollback > len(applied) {
		toRollback = len(applied)
		fmt.Printf("⚠️  Only %d migrations available, rolling back all.\n", len(applied))
	}

	migrationsToRollback := applied[:toRollback]

	fmt.Printf("Rolling back %d migration(s)...\n", toRollback)
	for _, f := range migrationsToRollback {
		fmt.Printf("Rolling back: %s\n", f)
		if err := rollbackMigration(conn, ctx, f); err != nil {
			return err
		}
	}

	fmt.Println("✅ Rollback completed.")
	return nil
}

func Status() ([]string, []string, []MigrationRecord, error) {
	conn, ctx, err := getConn()
	if err != nil {
		return nil, nil, nil, err
	}
	defer conn.Close(ctx)

	if err := ensureMigrationsTable(conn, ctx); err != nil {
		return nil, nil, nil, err
	}

	appliedMap, err := getAppliedMigrations(conn, ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	var applied []string
	for k := range appliedMap {
		applied = append(applied, k)
	}
	sort.Strings(applied)

	files, err := getMigrationFiles()
	if err != nil {
		return nil, nil, nil, err
	}

	var pending []string
	for _, f := range files {
		if !appliedMap[f] {
			pending = append(pending, f)
		}
	}

	failed, err := getFailedMigrations(conn, ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	return applied, pending, failed, nil
}

// GetMigrationHistory retrieves migration history with optional filtering by
// affected enum type.
func GetMigrationHistory(conn *pgx.Conn, limit int, typeFilter string) ([]MigrationRecord, error) {
	ctx := context.Background()

	query := `
		SELECT id, filename, applied_at, execution_time, executed_by,
		       status, error_message, checksum, types_affected
		FROM schema_migrations
	`

	var args []interface{}
	argCount := 0

	if typeFilter != "" {
		argCount++
		query += fmt.Sprintf(" WHERE types_affected ILIKE $%d", argCount)
		args = append(args, "%"+typeFilter+"%")
	}

	query += " ORDER BY applied_at DESC"

	if limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, limit)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query migration history: %v", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var record MigrationRecord
		var executionTime *time.Duration
		var errorMessage, checksum, typesAffected *string

		err := rows.Scan(
			&record.ID,
			&record.MigrationName,
			&record.ExecutedAt,
			&executionTime,
			&record.ExecutedBy,
			&record.Status,
			&errorMessage,
			&checksum,
			&typesAffected,
		)
		if err != nil {
			return nil, fmt.Errorf("scan migration record: %v", err)
		}

		if executionTime != nil {
			record.ExecutionTime = *executionTime
		}
		if errorMessage != nil {
			record.ErrorMessage = *errorMessage
		}
		if checksum != nil {
			record.Checksum = *checksum
		}
		if typesAffected != nil {
			record.TypesAffected = *typesAffected
		}

		records = append(records, record)
	}

	return records, nil
}

// GetMigrationLogs retrieves migration logs with optional limit
func GetMigrationLogs(conn *pgx.Conn, limit int) ([]MigrationLog, error) {
	ctx := context.Background()

	query := `
		SELECT id, timestamp, level, message, user_name, details, migration_name
		FROM migration_logs
		ORDER BY timestamp DESC
	`

	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query migration logs: %v", err)
	}
	defer rows.Close()

	var logs []MigrationLog
	for rows.Next() {
		var log MigrationLog

		err := rows.Scan(
			&log.ID,
			&log.Timestamp,
			&log.Level,
			&log.Message,
			&log.User,
			&log.Details,
			&log.MigrationName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan migration log: %v", err)
		}

		logs = append(logs, log)
	}

	return logs, nil
}

// PreviewMigrations prints every pending migration's forward operations and
// the inverse a rollback would run, without applying anything.
func PreviewMigrations() error {
	conn, ctx, err := getConn()
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if err := ensureMigrationsTable(conn, ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %v", err)
	}

	applied, err := getAppliedMigrations(conn, ctx)
	if err != nil {
		return err
	}

	files, err := getMigrationFiles()
	if err != nil {
		return err
	}

	var pending []string
	for _, f := range files {
		if !applied[f] {
			pending = append(pending, f)
		}
	}

	if len(pending) == 0 {
		fmt.Println("✅ No pending migrations.")
		return nil
	}

	fmt.Println("\n================ DRY RUN: Migration Preview ================")
	for _, f := range pending {
		fmt.Printf("\n-- Migration: %s --\n", f)
		_, ops, err := loadMigration(f)
		if err != nil {
			return err
		}
		fmt.Println("-- Forward --")
		for _, op := range ops {
			fmt.Println(op)
		}
		fmt.Println("\n-- Rollback (computed inverse) --")
		for i := len(ops) - 1; i >= 0; i-- {
			inverse, err := ops[i].Inverse()
			if err != nil {
				fmt.Printf("(%v)\n", err)
				continue
			}
			fmt.Println(inverse)
		}
	}
	fmt.Println("============================================================")
	fmt.Println("(Dry run only. No migrations were applied.)")
	return nil
}
