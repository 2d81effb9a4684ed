package models

import "time"

// DrugLabel caches the last successfully fetched label explanation for
// a medication name. Entries persist until explicitly refreshed and are
// best-effort, never authoritative.
type DrugLabel struct {
	Name              string    `gorm:"primaryKey" json:"name"`
	GenericName       string    `json:"generic_name"`
	Class             string    `json:"class"`
	WhatItDoes        string    `json:"what_it_does"`
	HowToTake         string    `json:"how_to_take"`
	CommonSideEffects string    `json:"common_side_effects"`
	Cautions          string    `json:"cautions"`
	Interactions      string    `json:"interactions"`
	Source            string    `json:"source"`
	FetchedAt         time.Time `json:"fetched_at"`
}
