package game

import (
	"math/rand"

	"shiritori/domain"
)

// Rule is an active hidden rule inside one room: a catalog definition plus
// the first player who satisfied it.
type Rule struct {
	RuleDef
	AchievedBy string
}

func (r *Rule) Sanitized() domain.SanitizedRule {
	out := domain.SanitizedRule{
		ID:          r.ID,
		Description: r.Description,
		Points:      r.Points,
	}
	if r.AchievedBy != "" {
		achieved := r.AchievedBy
		out.AchievedBy = &achieved
	}
	return out
}

const (
	activeRulesCount   = 3
	candidateDecoys    = 6
	hintDecoys         = 2
	startingCharacters = "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわ"
)

// Selector performs every random draw a room needs. All draws go through the
// injected *rand.Rand so tests can fix the sequence.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// ActiveRules draws the hidden rules for a new room: 3 distinct catalog
// entries, uniform, without replacement.
func (s *Selector) ActiveRules() []*Rule {
	perm := s.rng.Perm(len(Catalog))
	rules := make([]*Rule, 0, activeRulesCount)
	for _, i := range perm[:activeRulesCount] {
		rules = append(rules, &Rule{RuleDef: Catalog[i]})
	}
	return rules
}

// CandidateSet returns the active rule descriptions mixed with 6 decoys drawn
// from the rest of the catalog, shuffled. This is the only rule list clients
// may enumerate.
func (s *Selector) CandidateSet(active []*Rule) []domain.RuleInfo {
	activeIds := make(map[string]struct{}, len(active))
	candidates := make([]domain.RuleInfo, 0, len(active)+candidateDecoys)
	for _, r := range active {
		activeIds[r.ID] = struct{}{}
		candidates = append(candidates, r.Info())
	}

	rest := make([]RuleDef, 0, len(Catalog))
	for _, def := range Catalog {
		if _, ok := activeIds[def.ID]; !ok {
			rest = append(rest, def)
		}
	}
	s.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	for _, def := range rest[:candidateDecoys] {
		candidates = append(candidates, def.Info())
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates
}

// HintOptions builds a hint multiple-choice: the target rule's description
// plus k decoy descriptions from the catalog (target excluded), shuffled.
func (s *Selector) HintOptions(target *Rule, k int) []string {
	decoys := make([]string, 0, len(Catalog)-1)
	for _, def := range Catalog {
		if def.ID != target.ID {
			decoys = append(decoys, def.Description)
		}
	}
	s.rng.Shuffle(len(decoys), func(i, j int) { decoys[i], decoys[j] = decoys[j], decoys[i] })

	options := append([]string{target.Description}, decoys[:k]...)
	s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// PickUnachieved selects one still-unachieved rule for a hint, or nil when
// every active rule has been achieved.
func (s *Selector) PickUnachieved(active []*Rule) *Rule {
	unachieved := make([]*Rule, 0, len(active))
	for _, r := range active {
		if r.AchievedBy == "" {
			unachieved = append(unachieved, r)
		}
	}
	if len(unachieved) == 0 {
		return nil
	}
	return unachieved[s.rng.Intn(len(unachieved))]
}

// FirstCharacter draws the fixed starting character for a room.
func (s *Selector) FirstCharacter() rune {
	runes := []rune(startingCharacters)
	return runes[s.rng.Intn(len(runes))]
}
