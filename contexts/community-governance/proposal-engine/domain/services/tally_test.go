package services

import (
	"testing"
	"time"

	"san2stic/contexts/community-governance/proposal-engine/domain/entities"
)

func binaryProposal() entities.Proposal {
	return entities.Proposal{
		ProposalID: "prop-1",
		Options:    []string{"For", "Against"},
		Status:     entities.ProposalStatusActive,
	}
}

func ballot(voterID string, option int, reputation int) entities.Ballot {
	return entities.Ballot{
		Vote: entities.Vote{
			VoteID:     "vote-" + voterID,
			ProposalID: "prop-1",
			VoterID:    voterID,
			Option:     option,
			UpdatedAt:  time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		},
		VoterReputation: reputation,
	}
}

func TestTallyCountsAndWeights(t *testing.T) {
	proposal := binaryProposal()
	ballots := []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 0, 250),
		ballot("u3", 1, 5000),
	}

	result := Tally(proposal, ballots)

	if len(result.Counts) != 2 || len(result.Weighted) != 2 {
		t.Fatalf("expected dense slices of len 2, got counts=%v weighted=%v", result.Counts, result.Weighted)
	}
	if result.Counts[0] != 2 || result.Counts[1] != 1 {
		t.Fatalf("unexpected counts %v", result.Counts)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.Weighted[0] != 3.5 {
		t.Fatalf("expected weighted[0]=3.5 (1.0+2.5), got %v", result.Weighted[0])
	}
	// Reputation 5000 caps at weight 10.
	if result.Weighted[1] != 10 {
		t.Fatalf("expected weighted[1] capped at 10, got %v", result.Weighted[1])
	}
	if option, ok := result.UserVote("u2"); !ok || option != 0 {
		t.Fatalf("expected u2 vote recorded as option 0, got %d ok=%v", option, ok)
	}
}

func TestTallyExcludesOutOfRangeBallots(t *testing.T) {
	proposal := binaryProposal()
	result := Tally(proposal, []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 7, 100),
	})
	if result.Total != 1 {
		t.Fatalf("expected out-of-range ballot excluded, total=%d", result.Total)
	}
	if result.Counts[0] != 1 || result.Counts[1] != 0 {
		t.Fatalf("unexpected counts %v", result.Counts)
	}
}

func TestTallyIsDeterministic(t *testing.T) {
	proposal := binaryProposal()
	ballots := []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 1, 300),
	}
	first := Tally(proposal, ballots)
	second := Tally(proposal, ballots)
	if first.Total != second.Total || first.Counts[0] != second.Counts[0] || first.Weighted[1] != second.Weighted[1] {
		t.Fatalf("expected identical tallies, got %+v vs %+v", first, second)
	}
}

func TestOutcomeClearForMajorityPasses(t *testing.T) {
	proposal := binaryProposal()
	result := Tally(proposal, []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 0, 100),
		ballot("u3", 0, 100),
		ballot("u4", 1, 100),
	})
	if outcome := Outcome(proposal, result); outcome != entities.ProposalStatusPassed {
		t.Fatalf("expected passed for 3-1 For majority, got %s", outcome)
	}
}

func TestOutcomeTieRejects(t *testing.T) {
	proposal := binaryProposal()
	result := Tally(proposal, []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 0, 100),
		ballot("u3", 1, 100),
		ballot("u4", 1, 100),
	})
	if outcome := Outcome(proposal, result); outcome != entities.ProposalStatusRejected {
		t.Fatalf("expected rejected for 2-2 tie, got %s", outcome)
	}
}

func TestOutcomeZeroVotesRejects(t *testing.T) {
	proposal := binaryProposal()
	result := Tally(proposal, nil)
	if outcome := Outcome(proposal, result); outcome != entities.ProposalStatusRejected {
		t.Fatalf("expected rejected for empty tally, got %s", outcome)
	}
}

func TestOutcomeCustomLabelWinnerRejects(t *testing.T) {
	proposal := entities.Proposal{
		ProposalID: "prop-2",
		Options:    []string{"Option A", "Option B"},
	}
	result := Tally(proposal, []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 0, 100),
		ballot("u3", 1, 100),
	})
	// "Option A" wins outright but does not match the approval labels.
	if outcome := Outcome(proposal, result); outcome != entities.ProposalStatusRejected {
		t.Fatalf("expected rejected for non-approval winning label, got %s", outcome)
	}
}

func TestOutcomeYesLabelPasses(t *testing.T) {
	proposal := entities.Proposal{
		ProposalID: "prop-3",
		Options:    []string{"YES", "No"},
	}
	result := Tally(proposal, []entities.Ballot{
		ballot("u1", 0, 100),
		ballot("u2", 0, 100),
		ballot("u3", 1, 100),
	})
	if outcome := Outcome(proposal, result); outcome != entities.ProposalStatusPassed {
		t.Fatalf("expected passed for case-insensitive yes winner, got %s", outcome)
	}
}

func TestWinnerRequiresStrictMaximum(t *testing.T) {
	if _, ok := Winner([]int{2, 2, 1}); ok {
		t.Fatal("expected no winner on shared maximum")
	}
	if winner, ok := Winner([]int{1, 4, 2}); !ok || winner != 1 {
		t.Fatalf("expected winner index 1, got %d ok=%v", winner, ok)
	}
	if _, ok := Winner(nil); ok {
		t.Fatal("expected no winner for empty counts")
	}
}
