package predict

import (
	"showdown-scout/data"
	"showdown-scout/game"
)

type Archetype string

const (
	ArchetypeHyperOffense Archetype = "hyper-offense"
	ArchetypeStall        Archetype = "stall"
	ArchetypeBalance      Archetype = "balance"
)

const (
	fastSpeedBase     = 100
	bulkBaseSum       = 330
	minFastMembers    = 3
	minSetupSightings = 2
	minRecoverMoves   = 3
	minBulkMembers    = 3
)

// Classify buckets a roster by what has been seen of it: offense first,
// then stall, defaulting to balance.
func Classify(dex *data.Dex, team *game.Team) Archetype {
	var fast, bulky, setupSeen, recoverySeen int
	for _, name := range team.Names() {
		entry := team.Get(name)
		species := dex.GetSpecies(name)
		if species.BaseStats.Spe >= fastSpeedBase {
			fast++
		}
		if species.BaseStats.HP+species.BaseStats.Def+species.BaseStats.SpD >= bulkBaseSum {
			bulky++
		}
		for _, m := range entry.Moves {
			flags := dex.GetMove(m).Flags
			if flags.Setup {
				setupSeen++
			}
			if flags.Recovery {
				recoverySeen++
			}
		}
	}
	if fast >= minFastMembers || setupSeen >= minSetupSightings {
		return ArchetypeHyperOffense
	}
	if recoverySeen >= minRecoverMoves || bulky >= minBulkMembers {
		return ArchetypeStall
	}
	return ArchetypeBalance
}
