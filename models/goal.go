package models

// Goal is a single scoring event inside a match. PlayerName is a denormalized
// snapshot so the scorer list survives player renames.
//
// The remote store additionally stamps each goal document with its owning
// tournament and match ids; those back-references are a storage concern (see
// repositories.GoalDocument) and are not part of the domain model.
type Goal struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	Minute     int    `json:"minute"`
}
