// Package catalog loads challenge definitions and answers unlock-graph
// questions over them.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/abhisek/growthlab/internal/challenge"
)

// NotFoundError is returned when a challenge ID is not in the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("challenge not found: %q", e.ID)
}

// Catalog is an immutable, validated set of challenges with precomputed
// unlock-graph indices.
type Catalog struct {
	challenges []challenge.Challenge
	byID       map[string]*challenge.Challenge
	dependents map[string][]string
	topoOrder  []string
	topoIndex  map[string]int
}

// New validates challenges and builds the catalog. Every problem found is
// reported in the returned error.
func New(challenges []challenge.Challenge) (*Catalog, error) {
	if err := validateAll(challenges); err != nil {
		return nil, err
	}

	c := &Catalog{
		challenges: slices.Clone(challenges),
		byID:       make(map[string]*challenge.Challenge, len(challenges)),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(challenges)),
	}
	for i := range c.challenges {
		c.byID[c.challenges[i].ID] = &c.challenges[i]
	}
	for i := range c.challenges {
		for _, p := range c.challenges[i].Prerequisites {
			c.dependents[p] = append(c.dependents[p], c.challenges[i].ID)
		}
	}
	for id := range c.dependents {
		sort.Strings(c.dependents[id])
	}

	c.topoOrder, _ = topoSort(c.challenges)
	for i, id := range c.topoOrder {
		c.topoIndex[id] = i
	}
	return c, nil
}

// Len returns the number of challenges.
func (c *Catalog) Len() int { return len(c.challenges) }

// Get returns the challenge with the given ID.
func (c *Catalog) Get(id string) (*challenge.Challenge, error) {
	ch, ok := c.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return ch, nil
}

// All returns every challenge in topological order.
func (c *Catalog) All() []challenge.Challenge {
	out := make([]challenge.Challenge, 0, len(c.topoOrder))
	for _, id := range c.topoOrder {
		out = append(out, *c.byID[id])
	}
	return out
}

// Roots returns the IDs of challenges with no prerequisites, in
// topological order. They are unlocked from the start.
func (c *Catalog) Roots() []string {
	var out []string
	for _, id := range c.topoOrder {
		if len(c.byID[id].Prerequisites) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Dependents returns the IDs of challenges that directly list id as a
// prerequisite, sorted.
func (c *Catalog) Dependents(id string) []string {
	return slices.Clone(c.dependents[id])
}

// IsUnlocked reports whether every prerequisite of id is in passed.
func (c *Catalog) IsUnlocked(id string, passed map[string]bool) bool {
	ch, ok := c.byID[id]
	if !ok {
		return false
	}
	for _, p := range ch.Prerequisites {
		if !passed[p] {
			return false
		}
	}
	return true
}

// Available returns the challenges that are unlocked but not yet passed,
// in topological order.
func (c *Catalog) Available(passed map[string]bool) []string {
	var out []string
	for _, id := range c.topoOrder {
		if !passed[id] && c.IsUnlocked(id, passed) {
			out = append(out, id)
		}
	}
	return out
}

// Unlockable selects up to n dependents of from that are not yet unlocked
// and whose prerequisites are all passed, in topological order. passed
// should already include from.
func (c *Catalog) Unlockable(from string, passed, unlocked map[string]bool, n int) []string {
	if n <= 0 {
		return nil
	}
	cands := slices.Clone(c.dependents[from])
	sort.Slice(cands, func(i, j int) bool { return c.topoIndex[cands[i]] < c.topoIndex[cands[j]] })

	var out []string
	for _, id := range cands {
		if len(out) == n {
			break
		}
		if unlocked[id] || passed[id] || !c.IsUnlocked(id, passed) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func validateAll(challenges []challenge.Challenge) error {
	var errs []error
	ids := make(map[string]bool, len(challenges))
	for i := range challenges {
		ch := &challenges[i]
		if err := ch.Validate(); err != nil {
			errs = append(errs, err)
		}
		if ids[ch.ID] {
			errs = append(errs, fmt.Errorf("duplicate challenge ID: %q", ch.ID))
		}
		ids[ch.ID] = true
	}
	for _, ch := range challenges {
		for _, p := range ch.Prerequisites {
			if !ids[p] {
				errs = append(errs, fmt.Errorf("challenge %q references nonexistent prerequisite %q", ch.ID, p))
			}
		}
	}
	if _, cyclic := topoSort(challenges); len(cyclic) > 0 {
		errs = append(errs, fmt.Errorf("cycle detected involving challenges: %s", strings.Join(cyclic, ", ")))
	}
	return errors.Join(errs...)
}

// topoSort orders challenges with Kahn's algorithm, breaking ties by ID.
// The second result lists the IDs left on a cycle.
func topoSort(challenges []challenge.Challenge) (order, cyclic []string) {
	inDegree := make(map[string]int, len(challenges))
	for _, ch := range challenges {
		inDegree[ch.ID] = 0
	}
	adj := make(map[string][]string)
	for _, ch := range challenges {
		for _, p := range ch.Prerequisites {
			// Dangling prerequisites are reported separately.
			if _, ok := inDegree[p]; !ok {
				continue
			}
			inDegree[ch.ID]++
			adj[p] = append(adj[p], ch.ID)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		next := slices.Clone(adj[id])
		sort.Strings(next)
		for _, d := range next {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) < len(inDegree) {
		for id, deg := range inDegree {
			if deg > 0 {
				cyclic = append(cyclic, id)
			}
		}
		sort.Strings(cyclic)
	}
	return order, cyclic
}
