package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/hospital"
	"github.com/lifeline/lifeline/internal/domain/inventory"
	"github.com/lifeline/lifeline/internal/platform/db"
)

// testDB holds the shared database infrastructure for integration tests.
type testDB struct {
	Pool    *pgxpool.Pool
	ConnStr string
}

// globalDB is the package-level test database, initialized once in TestMain.
var globalDB *testDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr, cleanup, err := startPostgresContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres container: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}

	migrator := db.NewMigrator(pool, findMigrationsDir())
	if _, err := migrator.Up(ctx); err != nil {
		pool.Close()
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	globalDB = &testDB{Pool: pool, ConnStr: connStr}
	code := m.Run()
	pool.Close()
	cleanup()
	os.Exit(code)
}

// findMigrationsDir locates the migrations directory relative to this test file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	// test/integration -> repo root
	return filepath.Join(dir, "..", "..", "migrations")
}

// truncateAll clears all domain tables between tests.
func truncateAll(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := globalDB.Pool.Exec(ctx, `
		TRUNCATE donor_activities, organs, batches, requests, donors, banks, hospitals CASCADE`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

// createTestHospital inserts a hospital at the given coordinates.
func createTestHospital(t *testing.T, ctx context.Context, name, city string, lat, lon float64) *hospital.Hospital {
	t.Helper()
	repo := hospital.NewRepoPG(globalDB.Pool)
	h := &hospital.Hospital{
		Name:      name,
		City:      city,
		Latitude:  ptr(lat),
		Longitude: ptr(lon),
	}
	if err := repo.Create(ctx, h); err != nil {
		t.Fatalf("create test hospital: %v", err)
	}
	return h
}

// createTestBank inserts a blood bank at the given coordinates.
func createTestBank(t *testing.T, ctx context.Context, name, city string, lat, lon float64) *inventory.Bank {
	t.Helper()
	repo := inventory.NewRepoPG(globalDB.Pool)
	b := &inventory.Bank{
		Name:      name,
		City:      city,
		Latitude:  ptr(lat),
		Longitude: ptr(lon),
	}
	if err := repo.CreateBank(ctx, b); err != nil {
		t.Fatalf("create test bank: %v", err)
	}
	return b
}

// createTestDonor inserts an available donor of the given blood type.
func createTestDonor(t *testing.T, ctx context.Context, name string, bt blood.Type, city string, lastDonation *time.Time) *donor.Donor {
	t.Helper()
	repo := donor.NewRepoPG(globalDB.Pool)
	d := &donor.Donor{
		Name:         name,
		BloodType:    bt,
		City:         ptr(city),
		Available:    true,
		LastDonation: lastDonation,
	}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("create test donor: %v", err)
	}
	return d
}
