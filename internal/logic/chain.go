package logic

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Statement is one classified sentence of a reasoning text.
type Statement struct {
	Index      int
	Text       string
	Role       Role
	Classifier string // name of the classifier that assigned Role; empty for default claims
}

// Gap is an evidence statement immediately followed by a conclusion with
// no premise in between.
type Gap struct {
	From       int // index of the evidence statement
	To         int // index of the conclusion statement
	Evidence   string
	Conclusion string
}

// Chain is the analyzed structure of a reasoning text.
type Chain struct {
	Statements []Statement
	Gaps       []Gap
}

// Normalize folds compatibility characters (full-width digits and
// punctuation) so the lexical rules see ASCII where possible.
func Normalize(text string) string {
	return norm.NFKC.String(text)
}

// Analyze splits text into statements, classifies each one and records
// every evidence→conclusion transition as a gap. This is a lexical
// heuristic: ambiguous phrasing produces false positives and negatives.
func Analyze(text string, classifiers []Classifier) Chain {
	var chain Chain
	for i, s := range Split(text) {
		role, name := RunClassifiers(classifiers, s)
		chain.Statements = append(chain.Statements, Statement{
			Index:      i,
			Text:       s,
			Role:       role,
			Classifier: name,
		})
	}
	for i := 0; i+1 < len(chain.Statements); i++ {
		cur, next := chain.Statements[i], chain.Statements[i+1]
		if cur.Role == RoleEvidence && next.Role == RoleConclusion {
			chain.Gaps = append(chain.Gaps, Gap{
				From:       cur.Index,
				To:         next.Index,
				Evidence:   cur.Text,
				Conclusion: next.Text,
			})
		}
	}
	return chain
}

// Split breaks text into trimmed, non-empty statements. A period only ends
// a statement when followed by whitespace or the end of text, so decimals
// like "5.5%" stay intact.
func Split(text string) []string {
	runes := []rune(Normalize(text))
	var (
		out   []string
		start int
	)
	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end + 1
	}
	for i, r := range runes {
		switch r {
		case '!', '?', ';', '\n', '。', '！', '？', '；':
			flush(i)
		case '.':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush(i)
			}
		}
	}
	if start < len(runes) {
		flush(len(runes))
	}
	return out
}
