package services

import (
	"strings"

	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
)

// Tally aggregates ballots into per-option raw counts and reputation-weighted
// sums. Deterministic and idempotent: two calls over the same inputs yield
// identical results, and no state is kept between calls. Ballots referencing
// an option index outside the proposal's option list are excluded so the dense
// counts always sum to Total.
func Tally(proposal entities.Proposal, ballots []entities.Ballot) entities.TallyResult {
	result := entities.TallyResult{
		Counts:   make([]int, len(proposal.Options)),
		Weighted: make([]float64, len(proposal.Options)),
		Choices:  make(map[string]int, len(ballots)),
	}
	for _, ballot := range ballots {
		if ballot.Option < 0 || ballot.Option >= len(proposal.Options) {
			continue
		}
		result.Counts[ballot.Option]++
		result.Weighted[ballot.Option] += ballot.Weight()
		result.Total++
		result.Choices[ballot.VoterID] = ballot.Option
	}
	return result
}

// Winner returns the sole option holding the maximum raw count. It reports
// false whenever the maximum is shared, including the all-zero tally where
// every option ties at 0.
func Winner(counts []int) (int, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	winner := 0
	holders := 1
	for i := 1; i < len(counts); i++ {
		switch {
		case counts[i] > counts[winner]:
			winner = i
			holders = 1
		case counts[i] == counts[winner]:
			holders++
		}
	}
	return winner, holders == 1
}

// Passes reports whether the winning option label carries the binary approval
// convention. Resolution compares the label case-insensitively against
// "for"/"yes", so proposals using custom option labels can never pass; they
// resolve to rejected even with a clear majority.
func Passes(proposal entities.Proposal, winner int) bool {
	if winner < 0 || winner >= len(proposal.Options) {
		return false
	}
	label := strings.ToLower(strings.TrimSpace(proposal.Options[winner]))
	return label == "for" || label == "yes"
}

// Outcome computes the terminal status for an expired proposal from its raw
// counts: no clear winner rejects, a clear "for"/"yes" winner passes.
func Outcome(proposal entities.Proposal, tally entities.TallyResult) entities.ProposalStatus {
	winner, ok := Winner(tally.Counts)
	if !ok {
		return entities.ProposalStatusRejected
	}
	if Passes(proposal, winner) {
		return entities.ProposalStatusPassed
	}
	return entities.ProposalStatusRejected
}
