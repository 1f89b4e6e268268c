package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_ActiveRules(t *testing.T) {
	t.Parallel()
	s := NewSelector(rand.NewSource(1))

	rules := s.ActiveRules()
	require.Len(t, rules, activeRulesCount)

	seen := map[string]struct{}{}
	for _, r := range rules {
		_, ok := FindRule(r.ID)
		assert.True(t, ok, "active rule %s not in catalog", r.ID)
		_, dup := seen[r.ID]
		assert.False(t, dup, "active rule %s drawn twice", r.ID)
		seen[r.ID] = struct{}{}
		assert.Empty(t, r.AchievedBy)
	}
}

func TestSelector_SameSeedSameDraw(t *testing.T) {
	t.Parallel()
	a := NewSelector(rand.NewSource(42))
	b := NewSelector(rand.NewSource(42))

	rulesA := a.ActiveRules()
	rulesB := b.ActiveRules()
	require.Len(t, rulesB, len(rulesA))
	for i := range rulesA {
		assert.Equal(t, rulesA[i].ID, rulesB[i].ID)
	}
	assert.Equal(t, a.FirstCharacter(), b.FirstCharacter())
}

func TestSelector_CandidateSet(t *testing.T) {
	t.Parallel()
	s := NewSelector(rand.NewSource(7))

	active := s.ActiveRules()
	candidates := s.CandidateSet(active)
	require.Len(t, candidates, activeRulesCount+candidateDecoys)

	ids := map[string]struct{}{}
	for _, c := range candidates {
		_, dup := ids[c.ID]
		assert.False(t, dup, "candidate %s listed twice", c.ID)
		ids[c.ID] = struct{}{}
	}
	for _, r := range active {
		_, ok := ids[r.ID]
		assert.True(t, ok, "active rule %s missing from candidates", r.ID)
	}
}

func TestSelector_HintOptions(t *testing.T) {
	t.Parallel()
	s := NewSelector(rand.NewSource(3))

	target := &Rule{RuleDef: Catalog[0]}
	options := s.HintOptions(target, hintDecoys)
	require.Len(t, options, hintDecoys+1)

	assert.Contains(t, options, target.Description)
	seen := map[string]struct{}{}
	for _, opt := range options {
		_, dup := seen[opt]
		assert.False(t, dup, "option %q listed twice", opt)
		seen[opt] = struct{}{}
	}
}

func TestSelector_PickUnachieved(t *testing.T) {
	t.Parallel()
	s := NewSelector(rand.NewSource(9))

	achieved := &Rule{RuleDef: Catalog[0], AchievedBy: "naruto"}
	open := &Rule{RuleDef: Catalog[1]}

	picked := s.PickUnachieved([]*Rule{achieved, open})
	require.NotNil(t, picked)
	assert.Equal(t, open.ID, picked.ID)

	assert.Nil(t, s.PickUnachieved([]*Rule{achieved}))
	assert.Nil(t, s.PickUnachieved(nil))
}

func TestSelector_FirstCharacter(t *testing.T) {
	t.Parallel()
	s := NewSelector(rand.NewSource(11))

	for i := 0; i < 50; i++ {
		c := s.FirstCharacter()
		assert.True(t, strings.ContainsRune(startingCharacters, c), "unexpected starting character %c", c)
	}
}
