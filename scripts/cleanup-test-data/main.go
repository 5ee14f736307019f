// cleanup-test-data removes rows left behind by integration runs or manual
// testing against a shared database.
//
// Two kinds of rows are removed:
//   - students created by the given user, with their assessments, ratings
//     and observations
//   - reference rows whose code starts with TEST- (domains, with their
//     measures) or TEST_LEVEL_ (developmental levels)
//
// Usage: go run ./scripts/cleanup-test-data <created-by-user-id>
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-dry-run   Show what would be deleted without actually deleting (default: true)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Deletes run child-first; the schema only cascades ratings to observations.
var cleanupSteps = []struct {
	table string
	where string
}{
	{"observations", `rating_id IN (SELECT r.id FROM ratings r JOIN assessments a ON a.id = r.assessment_id JOIN students s ON s.id = a.student_id WHERE s.created_by = $1)
		OR rating_id IN (SELECT r.id FROM ratings r JOIN measures m ON m.id = r.measure_id JOIN domains d ON d.id = m.domain_id WHERE d.code LIKE 'TEST-%')`},
	{"ratings", `assessment_id IN (SELECT a.id FROM assessments a JOIN students s ON s.id = a.student_id WHERE s.created_by = $1)
		OR measure_id IN (SELECT m.id FROM measures m JOIN domains d ON d.id = m.domain_id WHERE d.code LIKE 'TEST-%')
		OR developmental_level_id IN (SELECT id FROM developmental_levels WHERE code LIKE 'TEST\_LEVEL\_%')`},
	{"assessments", `student_id IN (SELECT id FROM students WHERE created_by = $1)`},
	{"students", `created_by = $1`},
	{"measures", `domain_id IN (SELECT id FROM domains WHERE code LIKE 'TEST-%')`},
	{"domains", `code LIKE 'TEST-%'`},
	{"developmental_levels", `code LIKE 'TEST\_LEVEL\_%'`},
}

func main() {
	dryRun := flag.Bool("dry-run", true, "Show what would be deleted without actually deleting")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dry-run=false] <created-by-user-id>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		fmt.Fprintf(os.Stderr, "  -dry-run  Show what would be deleted without deleting (default: true)\n")
		os.Exit(1)
	}
	userID := args[0]

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if *dryRun {
		fmt.Println("DRY RUN - no changes will be made")
		fmt.Println("Run with -dry-run=false to actually delete rows")
		fmt.Println()
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to begin transaction: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	total := 0
	for _, step := range cleanupSteps {
		count, err := cleanupTable(ctx, tx, step.table, step.where, userID, *dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error cleaning %s: %v\n", step.table, err)
			os.Exit(1)
		}
		total += count
	}

	if *dryRun {
		fmt.Printf("\nTotal rows that would be deleted: %d\n", total)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to commit: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nTotal rows deleted: %d\n", total)
}

// cleanupTable deletes the rows of table matching where. In dry-run mode it
// only counts them.
func cleanupTable(ctx context.Context, tx pgx.Tx, table, where, userID string, dryRun bool) (int, error) {
	var args []any
	if strings.Contains(where, "$1") {
		args = append(args, userID)
	}

	if dryRun {
		var count int
		err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, table, where), args...).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("count failed: %w", err)
		}
		fmt.Printf("  %-22s %d\n", table, count)
		return count, nil
	}

	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	count := int(result.RowsAffected())
	fmt.Printf("Deleted %d rows from %s\n", count, table)
	return count, nil
}

func buildConnString() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "drdp")
	password := os.Getenv("PGPASSWORD")
	dbname := getEnvOrDefault("PGDATABASE", "drdp")

	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
	if password != "" {
		connStr += fmt.Sprintf(" password=%s", password)
	}
	return connStr
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
