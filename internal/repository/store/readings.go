package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefaultHistoryLimit caps history queries, matching the dashboard's
// 500-reading charts.
const DefaultHistoryLimit = 500

// IndoorReading is one row of the indoor sensor feed.
type IndoorReading struct {
	// Timestamp is the reading time in store format.
	Timestamp string `json:"timestamp"`
	// PM25 is the particulate concentration driving the indoor AQI gauge.
	PM25 float64 `json:"pm25"`
	// Temperature is the indoor temperature.
	Temperature float64 `json:"temperature"`
	// Humidity is the indoor relative humidity.
	Humidity float64 `json:"humidity"`
}

// OutdoorReading is one row of the outdoor sensor feed.
type OutdoorReading struct {
	// Timestamp is the reading time in store format.
	Timestamp string `json:"timestamp"`
	// PM25 is the particulate concentration driving the outdoor AQI gauge.
	PM25 float64 `json:"pm25"`
	// Temperature is the outdoor temperature.
	Temperature float64 `json:"temperature"`
	// Humidity is the outdoor relative humidity.
	Humidity float64 `json:"humidity"`
	// WiFiStrength is the signal strength reported by the outdoor unit.
	WiFiStrength float64 `json:"wifi_strength"`
}

// PMSample is one (timestamp, concentration) pair for history charts.
type PMSample struct {
	// Timestamp is the reading time in store format.
	Timestamp string `json:"timestamp"`
	// PM25 is the particulate concentration.
	PM25 float64 `json:"pm25"`
}

// ReadingsRepository is the read-only view over the raw sensor readings the
// external pipeline writes. The dashboard only ever reads them.
type ReadingsRepository struct {
	// db is the shared database handle.
	db *sql.DB
}

// NewReadingsRepository creates a repository over the provided handle.
func NewReadingsRepository(db *sql.DB) *ReadingsRepository {
	return &ReadingsRepository{
		db: db,
	}
}

// LatestIndoor returns the most recent indoor reading, or nil when none exists.
func (r *ReadingsRepository) LatestIndoor(ctx context.Context) (*IndoorReading, error) {
	const query = `
		SELECT timestamp, pm25, temperature, humidity
		FROM indoor
		ORDER BY timestamp DESC
		LIMIT 1`

	var reading IndoorReading

	err := r.db.QueryRowContext(ctx, query).Scan(
		&reading.Timestamp,
		&reading.PM25,
		&reading.Temperature,
		&reading.Humidity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("query latest indoor reading: %w", err)
	}

	return &reading, nil
}

// LatestOutdoor returns the most recent outdoor reading, or nil when none exists.
func (r *ReadingsRepository) LatestOutdoor(ctx context.Context) (*OutdoorReading, error) {
	const query = `
		SELECT timestamp, pm25_value, temperature, humidity, wifi_strength
		FROM outdoor
		ORDER BY timestamp DESC
		LIMIT 1`

	var reading OutdoorReading

	err := r.db.QueryRowContext(ctx, query).Scan(
		&reading.Timestamp,
		&reading.PM25,
		&reading.Temperature,
		&reading.Humidity,
		&reading.WiFiStrength,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("query latest outdoor reading: %w", err)
	}

	return &reading, nil
}

// RecentIndoorPM returns up to limit recent indoor PM samples, newest first.
func (r *ReadingsRepository) RecentIndoorPM(ctx context.Context, limit int) ([]PMSample, error) {
	const query = `SELECT timestamp, pm25 FROM indoor ORDER BY timestamp DESC LIMIT $1`

	return r.queryPMSamples(ctx, query, limit)
}

// RecentOutdoorPM returns up to limit recent outdoor PM samples, newest first.
func (r *ReadingsRepository) RecentOutdoorPM(ctx context.Context, limit int) ([]PMSample, error) {
	const query = `SELECT timestamp, pm25_value FROM outdoor ORDER BY timestamp DESC LIMIT $1`

	return r.queryPMSamples(ctx, query, limit)
}

// queryPMSamples runs a two-column (timestamp, pm) query with a row cap.
func (r *ReadingsRepository) queryPMSamples(ctx context.Context, query string, limit int) ([]PMSample, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query PM history: %w", err)
	}
	defer rows.Close()

	samples := []PMSample{}

	for rows.Next() {
		var sample PMSample
		if err := rows.Scan(&sample.Timestamp, &sample.PM25); err != nil {
			return nil, fmt.Errorf("scan PM sample: %w", err)
		}

		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate PM samples: %w", err)
	}

	return samples, nil
}
