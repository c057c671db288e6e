package attempt

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// Graph renders the transition table in DOT. Nodes are labelled with the
// phase and the TransitionState shown while in it.
func Graph() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("attempt"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}
	for p := Setup; p <= Replaying; p++ {
		label := fmt.Sprintf("%q", fmt.Sprintf("%v\n%v", p, State{Phase: p}.Transition()))
		if err := g.AddNode("attempt", p.String(), map[string]string{"label": label}); err != nil {
			return "", errors.WithStack(err)
		}
	}
	for _, e := range Table() {
		attrs := map[string]string{"label": fmt.Sprintf("%q", e.Trigger.String())}
		if err := g.AddEdge(e.From.String(), e.To.String(), true, attrs); err != nil {
			return "", errors.WithStack(err)
		}
	}
	return g.String(), nil
}
