package models

import (
	"fmt"
	"strings"
	"time"
)

// Code is a station identifier. The upstream API is inconsistent about whether
// codes are JSON numbers or strings, so both are accepted and normalised to a
// string (preserving leading zeros when the source quotes them).
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		*c = Code(s[1 : len(s)-1])
		return nil
	}
	*c = Code(s)
	return nil
}

func (c Code) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", string(c))), nil
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Station struct {
	Code     Code         `json:"code"`
	Name     string       `json:"name"`
	Address  string       `json:"address"`
	Brand    string       `json:"brand"`
	Location *Coordinates `json:"location,omitempty"`
}

// PriceRecord is one fuel price at one station. Price is in cents; the record
// may arrive without a price, which is a representable state rather than an
// error. LastUpdated is the source-formatted timestamp (DD/MM/YYYY HH:MM:SS,
// assumed UTC).
type PriceRecord struct {
	StationCode Code   `json:"stationcode"`
	FuelType    string `json:"fueltype"`
	Price       *int64 `json:"price"`
	LastUpdated string `json:"lastupdated"`
}

// PriceSnapshot is one complete fetch of stations and prices. Snapshots are
// immutable: a refresh replaces the whole snapshot, never mutates one.
type PriceSnapshot struct {
	Stations  []Station     `json:"stations"`
	Prices    []PriceRecord `json:"prices"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// StationsByCode indexes the snapshot's stations, first occurrence wins.
func (s *PriceSnapshot) StationsByCode() map[string]*Station {
	m := make(map[string]*Station, len(s.Stations))
	for i := range s.Stations {
		code := string(s.Stations[i].Code)
		if _, ok := m[code]; !ok {
			m[code] = &s.Stations[i]
		}
	}
	return m
}

// PricesByStation groups price records per station, preserving input order.
func (s *PriceSnapshot) PricesByStation() map[string][]*PriceRecord {
	m := make(map[string][]*PriceRecord, len(s.Stations))
	for i := range s.Prices {
		code := string(s.Prices[i].StationCode)
		m[code] = append(m[code], &s.Prices[i])
	}
	return m
}
