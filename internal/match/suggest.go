package match

import (
	"sort"
)

// Candidate is a name considered for a "did you mean" suggestion.
type Candidate struct {
	Name  string
	Score float64 // normalized Levenshtein similarity (0-1)
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// DefaultMinScore is the minimum similarity for a name to be suggested.
const DefaultMinScore = 0.5

// RankCandidates scores every name against target, best first.
func RankCandidates(target string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, Candidate{
			Name:  name,
			Score: NormalizedLevenshteinScore(target, name),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n names that are similar enough to target.
func Suggest(target string, names []string, n int) []string {
	var res []string
	for _, c := range RankCandidates(target, names).AboveThreshold(DefaultMinScore).Top(n) {
		res = append(res, c.Name)
	}

	return res
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}
