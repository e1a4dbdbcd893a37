package skillgraph

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate performs all structural checks on a graph document.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(data Data) error {
	var errs []string

	idSet := make(map[string]bool, len(data.Nodes))
	specSet := map[string]bool{CoreSpecialization: true}

	for _, s := range data.Specializations {
		if s.ID == "" {
			errs = append(errs, "specialization with empty id")
			continue
		}
		if specSet[s.ID] && s.ID != CoreSpecialization {
			errs = append(errs, fmt.Sprintf("duplicate specialization ID: %q", s.ID))
		}
		specSet[s.ID] = true
		if s.Threshold < 0 || s.MasteryThreshold < 0 {
			errs = append(errs, fmt.Sprintf("specialization %q: thresholds must be >= 0", s.ID))
		}
		if s.MasteryThreshold < s.Threshold {
			errs = append(errs, fmt.Sprintf("specialization %q: mastery_threshold %d is below threshold %d", s.ID, s.MasteryThreshold, s.Threshold))
		}
		if s.Color != "" && !hexColor.MatchString(s.Color) {
			errs = append(errs, fmt.Sprintf("specialization %q: color %q is not a hex color", s.ID, s.Color))
		}
	}

	// Check for duplicate IDs
	hasCore := false
	for _, n := range data.Nodes {
		if n.ID == "" {
			errs = append(errs, "node with empty id")
			continue
		}
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %q", n.ID))
		}
		idSet[n.ID] = true

		if n.Tier < 0 {
			errs = append(errs, fmt.Sprintf("node %q: tier must be >= 0, got %d", n.ID, n.Tier))
		}
		if n.Cost.Reputation < 0 || n.Cost.SkillPoints < 0 {
			errs = append(errs, fmt.Sprintf("node %q: cost must be >= 0, got %+v", n.ID, n.Cost))
		}
		if !specSet[n.SpecializationID()] {
			errs = append(errs, fmt.Sprintf("node %q references unknown specialization %q", n.ID, n.Specialization))
		}
		if n.IsCore() {
			hasCore = true
			if n.SpecializationID() != CoreSpecialization {
				errs = append(errs, fmt.Sprintf("node %q: tier 0 is reserved for the core specialization", n.ID))
			}
		}
		for i, e := range n.Effects {
			if e.Type == "" {
				errs = append(errs, fmt.Sprintf("node %q effect %d: missing type", n.ID, i))
			}
		}
	}
	if !hasCore {
		errs = append(errs, "no core nodes found (at least one node must be tier 0)")
	}

	// Check for dangling edge endpoints
	for _, c := range data.Connections {
		if !idSet[c.Source] {
			errs = append(errs, fmt.Sprintf("connection %s->%s references nonexistent source", c.Source, c.Target))
		}
		if !idSet[c.Target] {
			errs = append(errs, fmt.Sprintf("connection %s->%s references nonexistent target", c.Source, c.Target))
		}
		if c.Source == c.Target {
			errs = append(errs, fmt.Sprintf("connection %s->%s is a self loop", c.Source, c.Target))
		}
	}

	if cyc := cycleNodes(data); len(cyc) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(cyc, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// cycleNodes runs Kahn's algorithm and returns the nodes left with a
// positive in-degree, in declaration order.
func cycleNodes(data Data) []string {
	inDegree := make(map[string]int, len(data.Nodes))
	adjList := make(map[string][]string)
	for _, n := range data.Nodes {
		inDegree[n.ID] = 0
	}
	seen := make(map[Connection]bool, len(data.Connections))
	for _, c := range data.Connections {
		if seen[c] {
			continue
		}
		seen[c] = true
		if _, ok := inDegree[c.Target]; !ok {
			continue
		}
		if _, ok := inDegree[c.Source]; !ok {
			continue
		}
		inDegree[c.Target]++
		adjList[c.Source] = append(adjList[c.Source], c.Target)
	}

	var queue []string
	for _, n := range data.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited >= len(inDegree) {
		return nil
	}
	var cyc []string
	for _, n := range data.Nodes {
		if inDegree[n.ID] > 0 {
			cyc = append(cyc, n.ID)
		}
	}
	return cyc
}
