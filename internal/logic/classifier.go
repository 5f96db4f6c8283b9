package logic

import (
	"regexp"
	"strings"
)

// Role is the part a statement plays in a chain of reasoning.
type Role string

const (
	RoleEvidence   Role = "evidence"
	RolePremise    Role = "premise"
	RoleConclusion Role = "conclusion"
	RoleClaim      Role = "claim"
)

// Classifier assigns a role to a single statement.
// Returns ("", false) if the rule doesn't apply.
type Classifier interface {
	Name() string
	Classify(statement string) (Role, bool)
}

// DefaultClassifiers returns the lexical classifiers in priority order.
// A statement with both a concluding connective and a number is a
// conclusion: the connective is the stronger signal.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&ConclusionClassifier{},
		&PremiseClassifier{},
		&EvidenceClassifier{},
	}
}

// RunClassifiers executes classifiers in order and returns the first match
// and the name of the classifier that produced it. Statements no rule
// matches are claims.
func RunClassifiers(classifiers []Classifier, statement string) (Role, string) {
	for _, c := range classifiers {
		if role, ok := c.Classify(statement); ok {
			return role, c.Name()
		}
	}
	return RoleClaim, ""
}

var (
	conclusionRe = regexp.MustCompile(`(?i)\b(therefore|thus|hence|so|consequently|as a result|in conclusion|which means|this means)\b|所以|因此|因而|由此可见`)
	premiseRe    = regexp.MustCompile(`(?i)\b(because|since|due to|given that|caused by|owing to)\b|因为|由于`)
	evidenceRe   = regexp.MustCompile(`(?i)\d|\bdata\b|数据`)
)

// ConclusionClassifier tags statements with a concluding connective.
type ConclusionClassifier struct{}

func (c *ConclusionClassifier) Name() string { return "conclusion" }

func (c *ConclusionClassifier) Classify(statement string) (Role, bool) {
	if conclusionRe.MatchString(statement) {
		return RoleConclusion, true
	}
	return "", false
}

// PremiseClassifier tags statements with a causal connective.
type PremiseClassifier struct{}

func (c *PremiseClassifier) Name() string { return "premise" }

func (c *PremiseClassifier) Classify(statement string) (Role, bool) {
	if premiseRe.MatchString(statement) {
		return RolePremise, true
	}
	return "", false
}

// EvidenceClassifier tags statements that cite a number or data.
type EvidenceClassifier struct{}

func (c *EvidenceClassifier) Name() string { return "evidence" }

func (c *EvidenceClassifier) Classify(statement string) (Role, bool) {
	if evidenceRe.MatchString(statement) {
		return RoleEvidence, true
	}
	return "", false
}

// OverrideClassifier pins the role of specific statements, e.g. after a
// human review. Keys are matched case-insensitively after trimming.
// Place it first in the chain.
type OverrideClassifier struct {
	Roles map[string]Role
}

func (c *OverrideClassifier) Name() string { return "override" }

func (c *OverrideClassifier) Classify(statement string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(statement))
	for k, role := range c.Roles {
		if strings.ToLower(strings.TrimSpace(k)) == key {
			return role, true
		}
	}
	return "", false
}
