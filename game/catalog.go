package game

import (
	"fmt"
	"strings"

	"shiritori/domain"
)

type PredicateKind int

const (
	PredicateLocal PredicateKind = iota
	PredicateDelegated
)

// Predicate is a tagged variant: a local pattern id resolved through
// localPatterns, or a yes/no question template answered by the oracle.
// Predicates stay server-side; only RuleDef metadata is ever serialized.
type Predicate struct {
	Kind             PredicateKind
	PatternID        string
	QuestionTemplate string
	UsesPreviousWord bool
}

type RuleDef struct {
	ID          string
	Description string
	Points      int
	Predicate   Predicate
}

func (d RuleDef) Info() domain.RuleInfo {
	return domain.RuleInfo{ID: d.ID, Description: d.Description, Points: d.Points}
}

// Question builds the oracle question for a delegated rule.
func (d RuleDef) Question(word, previousWord string) string {
	if d.Predicate.UsesPreviousWord {
		return fmt.Sprintf(d.Predicate.QuestionTemplate, word, previousWord)
	}
	return fmt.Sprintf(d.Predicate.QuestionTemplate, word)
}

// NEndingRuleID is the one rule that, when active and satisfied, permits a
// word ending in ん.
const NEndingRuleID = "rule_n_ending"

const (
	patternThreeChars       = "three-chars"
	patternHiraganaFivePlus = "hiragana-five-plus"
	patternContainsRi       = "contains-ri"
	patternVoicedMark       = "voiced-mark"
	patternDoubleChar       = "double-char"
	patternFirstEqualsLast  = "first-equals-last"
	patternLongerThanPrev   = "longer-than-prev"
	patternContainsLongMark = "contains-long-mark"
	patternEndsWithN        = "ends-with-n"
)

var localPatterns = map[string]func(word, previousWord string) bool{
	patternThreeChars: func(word, _ string) bool {
		return len([]rune(word)) == 3
	},
	patternHiraganaFivePlus: func(word, _ string) bool {
		runes := []rune(word)
		if len(runes) < 5 {
			return false
		}
		for _, r := range runes {
			if !isHiragana(r) && r != longVowelMark {
				return false
			}
		}
		return true
	},
	patternContainsRi: func(word, _ string) bool {
		return strings.ContainsRune(word, 'り')
	},
	patternVoicedMark: func(word, _ string) bool {
		for _, r := range word {
			if isVoicedKana(r) {
				return true
			}
		}
		return false
	},
	patternDoubleChar: func(word, _ string) bool {
		seen := map[rune]struct{}{}
		for _, r := range word {
			if _, ok := seen[r]; ok {
				return true
			}
			seen[r] = struct{}{}
		}
		return false
	},
	patternFirstEqualsLast: func(word, _ string) bool {
		runes := []rune(word)
		return len(runes) > 1 && runes[0] == runes[len(runes)-1]
	},
	patternLongerThanPrev: func(word, previousWord string) bool {
		return previousWord != "" && len([]rune(word)) > len([]rune(previousWord))
	},
	patternContainsLongMark: func(word, _ string) bool {
		return strings.ContainsRune(word, longVowelMark)
	},
	patternEndsWithN: func(word, _ string) bool {
		runes := []rune(word)
		if len(runes) == 0 {
			return false
		}
		last := runes[len(runes)-1]
		return last == 'ん' || last == 'ン'
	},
}

func local(patternID string) Predicate {
	return Predicate{Kind: PredicateLocal, PatternID: patternID}
}

func delegated(template string) Predicate {
	return Predicate{Kind: PredicateDelegated, QuestionTemplate: template}
}

func delegatedWithPrev(template string) Predicate {
	return Predicate{Kind: PredicateDelegated, QuestionTemplate: template, UsesPreviousWord: true}
}

// Catalog holds every rule the game can draw from. Rule ids are not
// contiguous; clients match on the id string, never the number.
var Catalog = []RuleDef{
	{ID: "rule1", Description: "3文字の単語", Points: 1, Predicate: local(patternThreeChars)},
	{ID: "rule3", Description: "食べ物の名前", Points: 1, Predicate: delegated("「%s」は食べ物の名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule4", Description: "動物の名前", Points: 1, Predicate: delegated("「%s」は動物の名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule5", Description: "色を表す単語", Points: 1, Predicate: delegated("「%s」は色を表す単語ですか？ はい、いいえで答えてください。")},
	{ID: "rule6", Description: "ひらがな5文字以上の単語", Points: 2, Predicate: local(patternHiraganaFivePlus)},
	{ID: "rule8", Description: "「り」を含む単語", Points: 1, Predicate: local(patternContainsRi)},
	{ID: "rule9", Description: "濁音もしくは半濁音を含む単語", Points: 1, Predicate: local(patternVoicedMark)},
	{ID: "rule11", Description: "植物の名前", Points: 1, Predicate: delegated("「%s」は植物の名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule12", Description: "乗り物の名前", Points: 1, Predicate: delegated("「%s」は乗り物の名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule13", Description: "同じ文字を2つ含む単語 (例:ばなな)", Points: 2, Predicate: local(patternDoubleChar)},
	{ID: "rule14", Description: "最初の文字と最後の文字が同じ単語", Points: 2, Predicate: local(patternFirstEqualsLast)},
	{ID: "rule15", Description: "天候に関する言葉", Points: 1, Predicate: delegated("「%s」は天候に関する言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule16", Description: "スポーツの名前", Points: 1, Predicate: delegated("「%s」はスポーツの名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule19", Description: "楽器の名前", Points: 1, Predicate: delegated("「%s」は楽器の名前ですか？ はい、いいえで答えてください。")},
	{ID: "rule20", Description: "丸い形を連想させる言葉", Points: 1, Predicate: delegated("「%s」は丸い形を連想させる言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule21", Description: "柔らかいものを表す言葉", Points: 1, Predicate: delegated("「%s」は柔らかいものを表す言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule22", Description: "甘いものを表す言葉", Points: 1, Predicate: delegated("「%s」は甘いものを表す言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule23", Description: "夏を連想させる言葉", Points: 1, Predicate: delegated("「%s」は夏を連想させる言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule24", Description: "前の単語と関連性の高い言葉", Points: 2, Predicate: delegatedWithPrev("「%s」は「%s」と関連性の高い言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule25", Description: "前の単語より文字数が多い言葉", Points: 2, Predicate: local(patternLongerThanPrev)},
	{ID: "rule26", Description: "体の部位", Points: 1, Predicate: delegated("「%s」は体の部位を表す言葉ですか？ はい、いいえで答えてください。")},
	{ID: "rule27", Description: "伸ばし棒（長音）を含む単語", Points: 1, Predicate: local(patternContainsLongMark)},
	{ID: NEndingRuleID, Description: "「ん」で終わる単語 (通常は反則)", Points: 2, Predicate: local(patternEndsWithN)},
}

// FindRule looks a definition up by id.
func FindRule(id string) (RuleDef, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return RuleDef{}, false
}

const longVowelMark = 'ー'

func isHiragana(r rune) bool {
	return r >= 'ぁ' && r <= 'ん'
}

// isVoicedKana reports whether r carries a dakuten or handakuten, either as a
// composed kana or as a combining mark.
func isVoicedKana(r rune) bool {
	if r == '\u3099' || r == '\u309a' { // combining (han)dakuten
		return true
	}
	return strings.ContainsRune(voicedKana, r)
}

const voicedKana = "がぎぐげござじずぜぞだぢづでどばびぶべぼぱぴぷぺぽゔ" +
	"ガギグゲゴザジズゼゾダヂヅデドバビブベボパピプペポヴ"
