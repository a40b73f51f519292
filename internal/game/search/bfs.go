// Package search implements breadth-first search over oriented grid
// positions with pluggable goal and blocking predicates.
package search

import (
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// Goal accepts a state reached after eta unit actions
type Goal func(state core.OrientedPosition, eta int) bool

// Blocker rejects entering pos when it would be reached after eta unit actions
type Blocker func(pos core.Position, eta int) bool

// Result describes the shortest path found
type Result struct {
	// Step is the first unit action to take; StepNone when the start satisfies the goal
	Step core.Step
	// Path holds every unit action from start to Final
	Path  []core.Step
	Final core.OrientedPosition
	ETA   int
}

type node struct {
	state  core.OrientedPosition
	eta    int
	parent int
	step   core.Step
}

// BFS finds the minimum-length sequence of moves and body rotations from
// start to a state accepted by goal on an n×n grid. Transitions that leave
// the grid or that blocked rejects are never taken, and every
// (position, facing) pair is expanded at most once.
func BFS(dim int, start core.OrientedPosition, goal Goal, blocked Blocker) (Result, bool) {
	if !start.Pos.IsValid(dim) {
		return Result{}, false
	}

	index := func(s core.OrientedPosition) int {
		return (s.Pos.Row*dim+s.Pos.Col)*4 + int(s.Dir)
	}

	visited := make([]bool, dim*dim*4)
	nodes := make([]node, 0, 64)
	nodes = append(nodes, node{state: start, parent: -1})
	visited[index(start)] = true

	for head := 0; head < len(nodes); head++ {
		cur := nodes[head]
		if goal(cur.state, cur.eta) {
			return buildResult(nodes, head), true
		}

		for _, step := range core.AllSteps {
			next := cur.state.Apply(step)
			if !next.Pos.IsValid(dim) {
				continue
			}
			if blocked != nil && blocked(next.Pos, cur.eta+1) {
				continue
			}
			idx := index(next)
			if visited[idx] {
				continue
			}
			visited[idx] = true
			nodes = append(nodes, node{state: next, eta: cur.eta + 1, parent: head, step: step})
		}
	}
	return Result{}, false
}

func buildResult(nodes []node, end int) Result {
	final := nodes[end]
	path := make([]core.Step, final.eta)
	for i := end; nodes[i].parent >= 0; i = nodes[i].parent {
		path[nodes[i].eta-1] = nodes[i].step
	}

	res := Result{Path: path, Final: final.state, ETA: final.eta}
	if len(path) > 0 {
		res.Step = path[0]
	}
	return res
}
