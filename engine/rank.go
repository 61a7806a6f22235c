package engine

import "sort"

// Entry is one leaderboard row before and after ranking.
type Entry struct {
	ParticipantID int    `json:"participantID"`
	DisplayName   string `json:"displayName"`
	Points        int    `json:"points"`
	Rank          int    `json:"rank"`
}

// Rank orders entries by points descending with display-name tie-break
// and assigns standard competition ranks: tied entries share the rank of
// the first entry in their group and the next distinct score resumes at
// its positional index (1, 1, 3 — never 1, 1, 2).
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].DisplayName < ranked[j].DisplayName
	})

	for i := range ranked {
		if i > 0 && ranked[i].Points == ranked[i-1].Points {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}
	return ranked
}
