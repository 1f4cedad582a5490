package domain

// Tally joins per-candidate vote counts onto the candidate list. Candidates
// absent from counts get zero; order follows candidates.
func Tally(campaign Campaign, candidates []Candidate, counts map[uint]int64) CampaignResults {
	res := CampaignResults{
		Campaign:   campaign,
		Candidates: make([]CandidateResult, 0, len(candidates)),
	}

	for _, c := range candidates {
		n := counts[c.ID]
		res.Candidates = append(res.Candidates, CandidateResult{
			ID:        c.ID,
			Name:      c.Name,
			UserID:    c.UserID,
			VoteCount: n,
		})
		res.TotalVotes += n
	}

	return res
}
