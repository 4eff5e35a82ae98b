// Package model contains domain models passed between layers.
package model

import "time"

// Source identifies the upstream dataset a raw event came from.
type Source string

// Known event sources.
const (
	SourceGDELT Source = "GDELT"
	SourceACLED Source = "ACLED"
)

// RawEvent is one conflict-event record as delivered by an upstream
// client, before normalization. Fields mirror the upstream payloads;
// most are optional depending on the source.
type RawEvent struct {
	Source      Source  `json:"data_source" bson:"data_source"`
	EventID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Country     string  `json:"country" bson:"country"`
	CountryCode string  `json:"country_code,omitempty" bson:"country_code,omitempty"`
	AvgTone     float64 `json:"avg_tone,omitempty" bson:"avg_tone,omitempty"`
	Goldstein   float64 `json:"goldstein_scale,omitempty" bson:"goldstein_scale,omitempty"`
	Fatalities  int     `json:"fatalities,omitempty" bson:"fatalities,omitempty"`
	EventType   string  `json:"event_type,omitempty" bson:"event_type,omitempty"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
	EventDate   string  `json:"event_date" bson:"event_date"`
	Actor1      string  `json:"actor1,omitempty" bson:"actor1,omitempty"`
	Actor2      string  `json:"actor2,omitempty" bson:"actor2,omitempty"`
	Location    string  `json:"location,omitempty" bson:"location,omitempty"`
	Notes       string  `json:"description,omitempty" bson:"description,omitempty"`
}

// Event is the structurally uniform record the aggregator consumes.
// Tone and Goldstein are zero for sources that do not carry them.
type Event struct {
	Source    Source
	Code      string
	Country   string
	Tone      float64
	Goldstein float64
	Latitude  float64
	Longitude float64
	EventDate string
}

// CountryAggregate accumulates per-country sums during one scoring run.
// It is ephemeral: built, consumed by the calculator, then discarded.
type CountryAggregate struct {
	Code         string
	Country      string
	EventCount   int
	ToneSum      float64
	GoldsteinSum float64
	// First contributing event's coordinates, kept as the
	// representative location. Not a centroid.
	Latitude  float64
	Longitude float64
}

// CountryScore is the persisted unit of record, one per country code.
// GSCS and SGM carry the same composite value; both names are emitted
// because downstream consumers read either.
type CountryScore struct {
	Code        string  `json:"code" bson:"code"`
	Country     string  `json:"country" bson:"country"`
	SRSD        float64 `json:"srsD" bson:"srsD"`
	SRSI        float64 `json:"srsI" bson:"srsI"`
	GSCS        float64 `json:"gscs" bson:"gscs"`
	SGM         float64 `json:"sgm" bson:"sgm"`
	STI         int     `json:"sti" bson:"sti"`
	Category    string  `json:"category" bson:"category"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	EventCount  int     `json:"event_count,omitempty" bson:"event_count,omitempty"`
	AvgTone     float64 `json:"avg_tone,omitempty" bson:"avg_tone,omitempty"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
	UpdatedAt   string  `json:"updated_at" bson:"updated_at"`
}

// ACLEDEvent is the per-event intensity record for the ACLED score
// family. It is stored and served independently of CountryScore; the
// two families are never merged.
type ACLEDEvent struct {
	EventID    string  `json:"id" bson:"id"`
	EventDate  string  `json:"event_date" bson:"event_date"`
	EventType  string  `json:"event_type" bson:"event_type"`
	Country    string  `json:"country" bson:"country"`
	Location   string  `json:"location,omitempty" bson:"location,omitempty"`
	Actor1     string  `json:"actor1,omitempty" bson:"actor1,omitempty"`
	Actor2     string  `json:"actor2,omitempty" bson:"actor2,omitempty"`
	Latitude   float64 `json:"latitude" bson:"latitude"`
	Longitude  float64 `json:"longitude" bson:"longitude"`
	Fatalities int     `json:"fatalities" bson:"fatalities"`
	Intensity  float64 `json:"intensity" bson:"intensity"`
	Notes      string  `json:"description,omitempty" bson:"description,omitempty"`
}

// NowISO returns the timestamp format used for CountryScore.UpdatedAt.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
