package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SavedTournaments = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matchday_tournament_saves_total", Help: "Total successful tournament saves"},
	)
	FailedSaves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matchday_tournament_save_failures_total", Help: "Total failed tournament saves"},
	)
	MigratedTournaments = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matchday_migrated_tournaments_total", Help: "Total tournaments migrated from the local cache to the remote store"},
	)
	RepairedBackReferences = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matchday_repaired_backrefs_total", Help: "Total goal back-references repaired"},
	)
	RemovedOrphanGoals = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matchday_removed_orphan_goals_total", Help: "Total orphaned goal documents removed"},
	)
)

func Register() {
	prometheus.MustRegister(
		SavedTournaments,
		FailedSaves,
		MigratedTournaments,
		RepairedBackReferences,
		RemovedOrphanGoals,
	)
}
