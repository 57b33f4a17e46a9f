package git

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// walkSlop is how many commits are still examined once only excluded
// commits are queued. It tolerates small committer clock skew.
const walkSlop = 5

const (
	walkSeen uint8 = 1 << iota
	walkExcluded
	walkDone
)

// rangeWalk lists the commits reachable from one tip but not from another.
// Both tips are walked together in committer-time order and the excluded
// side is propagated to parents, so the walk ends shortly after the two
// sides meet instead of reading the whole history of either.
type rangeWalk struct {
	repo    *git.Repository
	flags   map[plumbing.Hash]uint8
	parents map[plumbing.Hash][]plumbing.Hash
	queue   *binaryheap.Heap
}

func newRangeWalk(repo *git.Repository) *rangeWalk {
	return &rangeWalk{
		repo:    repo,
		flags:   make(map[plumbing.Hash]uint8),
		parents: make(map[plumbing.Hash][]plumbing.Hash),
		queue:   binaryheap.NewWith(newestFirst),
	}
}

// newestFirst orders commits by descending committer time, then by hash.
func newestFirst(a, b interface{}) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	ta, tb := ca.Committer.When, cb.Committer.When
	switch {
	case ta.After(tb):
		return -1
	case tb.After(ta):
		return 1
	}
	sa, sb := ca.Hash.String(), cb.Hash.String()
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

// push queues h unless it was seen already. Seeing an excluded commit a
// second time still marks it excluded.
func (w *rangeWalk) push(h plumbing.Hash, excluded bool) error {
	if w.flags[h]&walkSeen != 0 {
		if excluded {
			w.markExcluded(h)
		}
		return nil
	}

	c, err := w.repo.CommitObject(h)
	if err != nil {
		return fmt.Errorf("reading commit %s: %w", shortHash(h), err)
	}
	w.flags[h] = walkSeen
	if excluded {
		w.flags[h] |= walkExcluded
	}
	w.queue.Push(c)
	return nil
}

// markExcluded flags h and every already walked ancestor of it.
func (w *rangeWalk) markExcluded(h plumbing.Hash) {
	stack := []plumbing.Hash{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.flags[cur]&walkExcluded != 0 {
			continue
		}
		w.flags[cur] |= walkExcluded
		if w.flags[cur]&walkDone != 0 {
			stack = append(stack, w.parents[cur]...)
		}
	}
}

func (w *rangeWalk) onlyExcluded() bool {
	for _, v := range w.queue.Values() {
		if w.flags[v.(*object.Commit).Hash]&walkExcluded == 0 {
			return false
		}
	}
	return true
}

// run walks from include, minus everything reachable from exclude when it
// is not the zero hash, and returns the commits newest first.
func (w *rangeWalk) run(ctx context.Context, include, exclude plumbing.Hash) ([]*object.Commit, error) {
	if err := w.push(include, false); err != nil {
		return nil, err
	}
	if !exclude.IsZero() {
		if err := w.push(exclude, true); err != nil {
			return nil, err
		}
	}

	var picked []*object.Commit
	slop := walkSlop
	for !w.queue.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, _ := w.queue.Pop()
		c := v.(*object.Commit)
		excluded := w.flags[c.Hash]&walkExcluded != 0
		w.flags[c.Hash] |= walkDone
		w.parents[c.Hash] = c.ParentHashes

		for _, p := range c.ParentHashes {
			if err := w.push(p, excluded); err != nil {
				return nil, err
			}
		}
		if !excluded {
			picked = append(picked, c)
		}

		if w.onlyExcluded() {
			if slop == 0 {
				break
			}
			slop--
		} else {
			slop = walkSlop
		}
	}

	// A commit can be reached from the excluded side after it was picked.
	out := picked[:0]
	for _, c := range picked {
		if w.flags[c.Hash]&walkExcluded == 0 {
			out = append(out, c)
		}
	}
	logDebug("[git] range walk read %d commits, kept %d", len(w.flags), len(out))
	return out, nil
}
