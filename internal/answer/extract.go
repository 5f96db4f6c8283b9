package answer

// Source tells where an extracted value was found.
type Source string

const (
	SourceCalculation Source = "calculation"
	SourceField       Source = "field"
	SourceResults     Source = "results"
)

// Extracted is a value located by Lookup.
type Extracted struct {
	Value  float64
	Source Source

	// Calculation is the matching entry when Source is SourceCalculation.
	Calculation *Calculation
}

// ShowsWork reports whether the extracted value came with a formula or steps.
func (e Extracted) ShowsWork() bool {
	return e.Calculation != nil && e.Calculation.ShowsWork()
}

// Lookup finds the submitted value for variable. The first match wins:
//  1. a calculation entry whose Variable or Name equals variable and has a result
//  2. a top-level numeric field of that name
//  3. an entry of that name in Results
//
// The boolean is false when the variable is absent; callers must not
// treat a missing value as zero.
func (a *Answer) Lookup(variable string) (Extracted, bool) {
	if a == nil || variable == "" {
		return Extracted{}, false
	}
	for i := range a.Calculations {
		c := &a.Calculations[i]
		if c.Result == nil {
			continue
		}
		if c.Variable == variable || c.Name == variable {
			return Extracted{Value: *c.Result, Source: SourceCalculation, Calculation: c}, true
		}
	}
	if v, ok := a.Fields[variable]; ok {
		return Extracted{Value: v, Source: SourceField}, true
	}
	if v, ok := a.Results[variable]; ok {
		return Extracted{Value: v, Source: SourceResults}, true
	}
	return Extracted{}, false
}

// VariableNames returns every name under which a value was submitted.
// Used for "did you mean" hints.
func (a *Answer) VariableNames() []string {
	if a == nil {
		return nil
	}
	var names []string
	for _, c := range a.Calculations {
		if c.Variable != "" {
			names = append(names, c.Variable)
		}
		if c.Name != "" && c.Name != c.Variable {
			names = append(names, c.Name)
		}
	}
	for k := range a.Fields {
		names = append(names, k)
	}
	for k := range a.Results {
		names = append(names, k)
	}
	return names
}
