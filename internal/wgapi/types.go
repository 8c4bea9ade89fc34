package wgapi

import (
	"encoding/json"
	"time"
)

type envelope struct {
	Status string `json:"status"`
	Error  *struct {
		Code    int    `json:"code"`
		Field   string `json:"field"`
		Message string `json:"message"`
		Value   string `json:"value"`
	} `json:"error"`
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type clanSummary struct {
	ClanID int64  `json:"clan_id"`
	Tag    string `json:"tag"`
	Name   string `json:"name"`
}

type accountSummary struct {
	AccountID int64  `json:"account_id"`
	Nickname  string `json:"nickname"`
}

type accountClan struct {
	ClanID *int64 `json:"clan_id"`
	Clan   *struct {
		Tag string `json:"tag"`
	} `json:"clan"`
}

// Account is an exact gamer tag match.
type Account struct {
	ID       int64
	Nickname string
	// CapturedAt is when the search response was obtained, from cache or network.
	CapturedAt time.Time
}

// Membership is an account's current clan, if any.
type Membership struct {
	ClanID  *int64
	ClanTag string
}

// TankStats are lifetime random-battle statistics of one vehicle.
type TankStats struct {
	TankID                     int64 `json:"tank_id"`
	Battles                    int64 `json:"battles"`
	Wins                       int64 `json:"wins"`
	DamageDealt                int64 `json:"damage_dealt"`
	Frags                      int64 `json:"frags"`
	Spotted                    int64 `json:"spotted"`
	DroppedCapturePoints       int64 `json:"dropped_capture_points"`
	SurvivedBattles            int64 `json:"survived_battles"`
	Shots                      int64 `json:"shots"`
	Hits                       int64 `json:"hits"`
	Piercings                  int64 `json:"piercings"`
	DirectHitsReceived         int64 `json:"direct_hits_received"`
	NoDamageDirectHitsReceived int64 `json:"no_damage_direct_hits_received"`
}

type tankPlayer struct {
	TankID int64     `json:"tank_id"`
	All    TankStats `json:"all"`
}

// Vehicle is an encyclopedia entry.
type Vehicle struct {
	TankID int64  `json:"tank_id"`
	Name   string `json:"name"`
	Tier   int    `json:"tier"`
	Type   string `json:"type"`
}

// ExpectedValues are the per-vehicle WN8 reference averages.
type ExpectedValues struct {
	TankID  int64   `json:"IDNum"`
	Def     float64 `json:"expDef"`
	Frag    float64 `json:"expFrag"`
	Spot    float64 `json:"expSpot"`
	Damage  float64 `json:"expDamage"`
	WinRate float64 `json:"expWinRate"`
}
