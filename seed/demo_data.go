// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package seed

import "context"

// demoFundamentals are the canned tickers loaded by SeedDemoData.
var demoFundamentals = []*Fundamentals{
	{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", RevenueMUSD: 383285, NetIncomeMUSD: 96995, EPS: 6.13, PERatio: 29.4, DividendYield: 0.53},
	{Ticker: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", RevenueMUSD: 245122, NetIncomeMUSD: 88136, EPS: 11.80, PERatio: 35.1, DividendYield: 0.72},
	{Ticker: "KO", Name: "The Coca-Cola Company", Sector: "Consumer Staples", RevenueMUSD: 45754, NetIncomeMUSD: 10714, EPS: 2.47, PERatio: 25.2, DividendYield: 3.07},
	{Ticker: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financials", RevenueMUSD: 158104, NetIncomeMUSD: 49552, EPS: 16.23, PERatio: 12.1, DividendYield: 2.26},
	{Ticker: "XOM", Name: "Exxon Mobil Corporation", Sector: "Energy", RevenueMUSD: 344582, NetIncomeMUSD: 36010, EPS: 8.89, PERatio: 13.5, DividendYield: 3.33},
}

// demoDistricts are the canned city rows loaded by SeedDemoData.
var demoDistricts = []*District{
	{City: "Mumbai", District: "Bandra West", Population: 320000, IncomeTier: "high", FootTrafficIndex: 88, CommercialRentIndex: 92},
	{City: "Mumbai", District: "Andheri East", Population: 650000, IncomeTier: "medium", FootTrafficIndex: 76, CommercialRentIndex: 61},
	{City: "Mumbai", District: "Dadar", Population: 410000, IncomeTier: "medium", FootTrafficIndex: 83, CommercialRentIndex: 58},
	{City: "Mumbai", District: "Powai", Population: 230000, IncomeTier: "high", FootTrafficIndex: 64, CommercialRentIndex: 70},
	{City: "Mumbai", District: "Ghatkopar", Population: 540000, IncomeTier: "low", FootTrafficIndex: 71, CommercialRentIndex: 39},
	{City: "Bengaluru", District: "Indiranagar", Population: 180000, IncomeTier: "high", FootTrafficIndex: 85, CommercialRentIndex: 81},
	{City: "Bengaluru", District: "Koramangala", Population: 220000, IncomeTier: "high", FootTrafficIndex: 90, CommercialRentIndex: 86},
	{City: "Bengaluru", District: "Whitefield", Population: 350000, IncomeTier: "medium", FootTrafficIndex: 62, CommercialRentIndex: 55},
	{City: "San Francisco", District: "Mission", Population: 60000, IncomeTier: "medium", FootTrafficIndex: 82, CommercialRentIndex: 77},
	{City: "San Francisco", District: "SoMa", Population: 45000, IncomeTier: "high", FootTrafficIndex: 74, CommercialRentIndex: 89},
}

// SeedDemoData loads the canned rows. Idempotent.
func (s *Store) SeedDemoData(ctx context.Context) error {
	for _, f := range demoFundamentals {
		if err := s.UpsertFundamentals(ctx, f); err != nil {
			return err
		}
	}
	for _, d := range demoDistricts {
		if err := s.UpsertDistrict(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
