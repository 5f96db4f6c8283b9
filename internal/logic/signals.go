package logic

import "regexp"

var (
	causalRe     = regexp.MustCompile(`(?i)\b(because|since|due to|caused by|leads? to|led to|results? in|resulted in|drives?|drove|therefore|as a result)\b|因为|由于|导致|所以|因此`)
	dataPointRe  = regexp.MustCompile(`\d+(?:[.,]\d+)*%?`)
	comparisonRe = regexp.MustCompile(`(?i)\b(higher|lower|more|less|greater|fewer|increased?|decreased?|compared|versus|vs|than|grew|dropped|declined|rose|fell)\b|高于|低于|增长|下降|相比|比`)
)

// HasCausalLanguage reports whether text uses a causal connective.
func HasCausalLanguage(text string) bool {
	return causalRe.MatchString(Normalize(text))
}

// CountDataPoints counts numeric references such as "42", "3.5" or "12%".
func CountDataPoints(text string) int {
	return len(dataPointRe.FindAllString(Normalize(text), -1))
}

// HasComparison reports whether text compares quantities.
func HasComparison(text string) bool {
	return comparisonRe.MatchString(Normalize(text))
}
