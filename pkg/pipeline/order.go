package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Check verifies the ordering constraints declared by the steps. The declared order and every
// satisfiable After constraint are edges of a directed graph that rejects cycles: a constraint
// contradicting the declared order closes a cycle.
func (p *Pipeline) Check() error {
	if p == nil {
		return ErrPipelineMustBeSet
	}

	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	present := make(map[string]struct{}, len(p.steps))
	for _, entry := range p.steps {
		err := g.AddVertex(entry.info.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add step %q", entry.info.Name)
		}
		present[entry.info.Name] = struct{}{}
	}

	for i := 1; i < len(p.steps); i++ {
		err := g.AddEdge(p.steps[i-1].info.Name, p.steps[i].info.Name)
		if err != nil {
			return errors.Wrap(err, "unable to link steps")
		}
	}

	for _, entry := range p.steps {
		for _, other := range entry.info.Excludes {
			if _, ok := present[other]; ok {
				return errors.Wrapf(ErrExclusiveSteps, "%q and %q", entry.info.Name, other)
			}
		}
		for _, before := range entry.info.After {
			if _, ok := present[before]; !ok {
				continue
			}
			err := g.AddEdge(before, entry.info.Name)
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return errors.Wrapf(ErrStepOrder, "%q must run after %q", entry.info.Name, before)
			default:
				return errors.Wrap(err, "unable to check step order")
			}
		}
	}

	return nil
}
