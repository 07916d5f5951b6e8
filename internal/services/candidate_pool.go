package services

import (
	"strings"
)

// RankedActivity is one scored candidate from the activity corpus.
// Similarity keeps the raw retrieval score for tie-breaking and dedupe
// decisions; Score is the composite relevance signal.
type RankedActivity struct {
	Title       string
	Description string
	TimeWindow  string
	Image       string
	PeakHours   string
	CrowdLevel  string
	Tags        []string
	Similarity  float64
	Score       float64
}

// CandidatePool deduplicates candidates by normalized title, keeping the
// highest-similarity record per title. Insertion order is preserved so
// iteration stays deterministic.
type CandidatePool struct {
	index map[string]int
	items []RankedActivity
}

func NewCandidatePool() *CandidatePool {
	return &CandidatePool{index: make(map[string]int)}
}

func (p *CandidatePool) Add(a RankedActivity) {
	key := normalizeTitle(a.Title)
	if key == "" {
		return
	}
	if i, ok := p.index[key]; ok {
		if a.Similarity > p.items[i].Similarity {
			p.items[i] = a
		}
		return
	}
	p.index[key] = len(p.items)
	p.items = append(p.items, a)
}

func (p *CandidatePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Items returns a copy; callers may reorder it freely.
func (p *CandidatePool) Items() []RankedActivity {
	if p == nil {
		return nil
	}
	out := make([]RankedActivity, len(p.items))
	copy(out, p.items)
	return out
}

// Lookup finds the canonical record for a title, ignoring case and spacing.
func (p *CandidatePool) Lookup(title string) (RankedActivity, bool) {
	if p == nil {
		return RankedActivity{}, false
	}
	i, ok := p.index[normalizeTitle(title)]
	if !ok {
		return RankedActivity{}, false
	}
	return p.items[i], true
}

func (p *CandidatePool) Titles() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.items))
	for _, a := range p.items {
		out = append(out, a.Title)
	}
	return out
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
