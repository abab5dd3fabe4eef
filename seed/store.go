// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package seed provides the demo seed data: a SQLite store of equity
// fundamentals and city demographics, plus JSON flat-file helpers. Plain
// CRUD only; the analysis logic lives in the agent stages.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the demo SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the demo database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS fundamentals (
	ticker TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	sector TEXT NOT NULL,
	revenue_musd REAL NOT NULL,
	net_income_musd REAL NOT NULL,
	eps REAL NOT NULL,
	pe_ratio REAL NOT NULL,
	dividend_yield REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS city_districts (
	city TEXT NOT NULL,
	district TEXT NOT NULL,
	population INTEGER NOT NULL,
	income_tier TEXT NOT NULL,
	foot_traffic_index REAL NOT NULL,
	commercial_rent_index REAL NOT NULL,
	PRIMARY KEY (city, district)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Fundamentals is one equity fundamentals row.
type Fundamentals struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	RevenueMUSD   float64 `json:"revenue_musd"`
	NetIncomeMUSD float64 `json:"net_income_musd"`
	EPS           float64 `json:"eps"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
}

// District is one city demographics row.
type District struct {
	City                string  `json:"city"`
	District            string  `json:"district"`
	Population          int     `json:"population"`
	IncomeTier          string  `json:"income_tier"`
	FootTrafficIndex    float64 `json:"foot_traffic_index"`
	CommercialRentIndex float64 `json:"commercial_rent_index"`
}

// UpsertFundamentals inserts or replaces a fundamentals row.
func (s *Store) UpsertFundamentals(ctx context.Context, f *Fundamentals) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO fundamentals
	(ticker, name, sector, revenue_musd, net_income_musd, eps, pe_ratio, dividend_yield)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Ticker, f.Name, f.Sector, f.RevenueMUSD, f.NetIncomeMUSD, f.EPS, f.PERatio, f.DividendYield)
	if err != nil {
		return fmt.Errorf("upsert fundamentals %s: %w", f.Ticker, err)
	}
	return nil
}

// Fundamentals returns the row for ticker, or nil when absent.
func (s *Store) Fundamentals(ctx context.Context, ticker string) (*Fundamentals, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT ticker, name, sector, revenue_musd, net_income_musd, eps, pe_ratio, dividend_yield
FROM fundamentals WHERE ticker = ?`, ticker)

	var f Fundamentals
	if err := row.Scan(&f.Ticker, &f.Name, &f.Sector, &f.RevenueMUSD, &f.NetIncomeMUSD, &f.EPS, &f.PERatio, &f.DividendYield); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query fundamentals %s: %w", ticker, err)
	}
	return &f, nil
}

// UpsertDistrict inserts or replaces a district row.
func (s *Store) UpsertDistrict(ctx context.Context, d *District) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO city_districts
	(city, district, population, income_tier, foot_traffic_index, commercial_rent_index)
VALUES (?, ?, ?, ?, ?, ?)`,
		d.City, d.District, d.Population, d.IncomeTier, d.FootTrafficIndex, d.CommercialRentIndex)
	if err != nil {
		return fmt.Errorf("upsert district %s/%s: %w", d.City, d.District, err)
	}
	return nil
}

// Districts lists the district rows for city (case-insensitive).
func (s *Store) Districts(ctx context.Context, city string) ([]*District, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT city, district, population, income_tier, foot_traffic_index, commercial_rent_index
FROM city_districts WHERE city = ? COLLATE NOCASE ORDER BY district`, city)
	if err != nil {
		return nil, fmt.Errorf("query districts %s: %w", city, err)
	}
	defer rows.Close()

	var districts []*District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.City, &d.District, &d.Population, &d.IncomeTier, &d.FootTrafficIndex, &d.CommercialRentIndex); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		districts = append(districts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return districts, nil
}
