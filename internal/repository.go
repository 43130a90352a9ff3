package internal

import (
	"database/sql"
	_ "embed"
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

//go:embed sql/insert_station.sql
var insertStationSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/select_stations.sql
var selectStationsSQL string

//go:embed sql/select_prices.sql
var selectPricesSQL string

// SnapshotRepository is a warm-start cache holding only the latest price and
// overlay snapshots. Each save overwrites the previous snapshot wholesale;
// this is not a price history store.
type SnapshotRepository interface {
	SavePriceSnapshot(snap *models.PriceSnapshot) error
	LoadPriceSnapshot() (*models.PriceSnapshot, error)
	SaveOverlaySnapshot(snap *models.OverlaySnapshot) error
	LoadOverlaySnapshot() (*models.OverlaySnapshot, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &sqliteRepository{db: db}
}

func (repo *sqliteRepository) SavePriceSnapshot(snap *models.PriceSnapshot) error {
	tx, err := repo.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	for _, stmt := range []string{"DELETE FROM prices", "DELETE FROM stations"} {
		if _, err = tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to clear previous snapshot")
		}
	}

	if err = insertBatch(tx, insertStationSQL, len(snap.Stations), func(i int) []any {
		st := &snap.Stations[i]
		var lat, lon *float64
		if st.Location != nil {
			lat, lon = &st.Location.Latitude, &st.Location.Longitude
		}
		return []any{i, string(st.Code), st.Name, st.Address, st.Brand, lat, lon}
	}); err != nil {
		return err
	}

	if err = insertBatch(tx, insertPriceSQL, len(snap.Prices), func(i int) []any {
		p := &snap.Prices[i]
		return []any{i, string(p.StationCode), p.FuelType, p.Price, p.LastUpdated}
	}); err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO snapshot_meta (id, fetched_at) VALUES (1, ?)",
		snap.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrap(err, "failed to record snapshot metadata")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func insertBatch(tx *sql.Tx, query string, n int, tuple func(i int) []any) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement")
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(tuple(i)...); err != nil {
			return errors.Wrap(err, "failed to execute individual insert")
		}
	}
	return nil
}

// LoadPriceSnapshot returns the cached snapshot, or nil when nothing has been
// cached yet.
func (repo *sqliteRepository) LoadPriceSnapshot() (*models.PriceSnapshot, error) {
	var fetchedAt string
	err := repo.db.QueryRow("SELECT fetched_at FROM snapshot_meta WHERE id = 1").Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot metadata")
	}

	snap := &models.PriceSnapshot{}
	if snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
		return nil, errors.Wrap(err, "failed to parse snapshot timestamp")
	}

	rows, err := repo.db.Query(selectStationsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query stations")
	}
	defer closeRows(rows)

	for rows.Next() {
		var st models.Station
		var code string
		var lat, lon *float64
		if err := rows.Scan(&code, &st.Name, &st.Address, &st.Brand, &lat, &lon); err != nil {
			return nil, errors.Wrap(err, "failed to scan station row")
		}
		st.Code = models.Code(code)
		if lat != nil && lon != nil {
			st.Location = &models.Coordinates{Latitude: *lat, Longitude: *lon}
		}
		snap.Stations = append(snap.Stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over station rows")
	}

	priceRows, err := repo.db.Query(selectPricesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query prices")
	}
	defer closeRows(priceRows)

	for priceRows.Next() {
		var p models.PriceRecord
		var code string
		if err := priceRows.Scan(&code, &p.FuelType, &p.Price, &p.LastUpdated); err != nil {
			return nil, errors.Wrap(err, "failed to scan price row")
		}
		p.StationCode = models.Code(code)
		snap.Prices = append(snap.Prices, p)
	}
	if err := priceRows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over price rows")
	}

	return snap, nil
}

func (repo *sqliteRepository) SaveOverlaySnapshot(snap *models.OverlaySnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to marshal overlay snapshot")
	}
	_, err = repo.db.Exec(
		"INSERT OR REPLACE INTO overlay_cache (id, payload, fetched_at) VALUES (1, ?, ?)",
		string(payload),
		snap.FetchedAt.UTC().Format(time.RFC3339),
	)
	return errors.Wrap(err, "failed to store overlay snapshot")
}

func (repo *sqliteRepository) LoadOverlaySnapshot() (*models.OverlaySnapshot, error) {
	var payload string
	err := repo.db.QueryRow("SELECT payload FROM overlay_cache WHERE id = 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read overlay cache")
	}

	var snap models.OverlaySnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal overlay snapshot")
	}
	return &snap, nil
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
