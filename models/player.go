package models

// Hat seeds the team draw: "first" hat players are strong, "second" hat
// players are weak. The hat is irrelevant once teams exist.
type Hat string

const (
	HatFirst  Hat = "first"
	HatSecond Hat = "second"
)

// Player belongs to exactly one team. Goals is a denormalized counter derived
// from the goal records of the tournament's matches.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
	Goals int    `json:"goals"`
	Hat   Hat    `json:"hat"`
}

// DisplayName prefers the alias over the registered name.
func (p *Player) DisplayName() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Name
}
