// Package overlay merges user-supplied extra analysis CLI arguments into the
// arguments built for each command.
//
// The extra options tree is keyed by command path. At every level the
// wildcard key "*" holds arguments that apply to every command below it:
//
//	{"*": ["--verbose"], "database": {"*": ["--threads=2"], "init": ["--ram=2048"]}}
//
// Resolving the path database/init yields ["--verbose", "--threads=2",
// "--ram=2048"]. Wildcard entries always precede path-specific entries and
// duplicates are passed through unchanged.
package overlay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// Wildcard is the key whose values apply to every command below its level.
const Wildcard = "*"

// Node is either a List of arguments or a Map of child nodes.
type Node interface {
	node()
}

// List is a flat, ordered list of stringified primitive arguments.
type List []string

// Map holds child nodes keyed by command path segment, including Wildcard.
type Map map[string]Node

func (List) node() {}
func (Map) node()  {}

// Tree is a parsed extra options tree. The zero value is an empty tree.
// A Tree is read-only after parsing and safe for concurrent use.
type Tree struct {
	root Node
}

// NewTree wraps a root node.
func NewTree(root Node) *Tree {
	return &Tree{root: root}
}

// Empty reports whether the tree holds no options at all.
func (t *Tree) Empty() bool {
	if t == nil || t.root == nil {
		return true
	}

	switch n := t.root.(type) {
	case List:
		return len(n) == 0
	case Map:
		return len(n) == 0
	}

	return true
}

// Resolve returns the extra arguments for the command identified by path:
// the wildcard list of every level along the path, outermost first, followed
// by the list found at the end of the path.
//
// A missing entry contributes nothing. A Map where a List is expected is a
// ConfigurationError naming the offending path.
func (t *Tree) Resolve(path ...string) ([]string, error) {
	if t == nil {
		return []string{}, nil
	}

	return resolve(t.root, path, nil)
}

func resolve(n Node, remaining, seen []string) ([]string, error) {
	m, isMap := n.(Map)

	var wildcard Node
	if isMap {
		wildcard = m[Wildcard]
	}

	all, err := asList(wildcard, appendPath(seen, Wildcard))
	if err != nil {
		return nil, err
	}

	var specific []string

	if len(remaining) == 0 {
		specific, err = asList(n, seen)
	} else {
		var child Node
		if isMap {
			child = m[remaining[0]]
		}

		specific, err = resolve(child, remaining[1:], appendPath(seen, remaining[0]))
	}

	if err != nil {
		return nil, err
	}

	return append(all, specific...), nil
}

func asList(n Node, path []string) ([]string, error) {
	switch v := n.(type) {
	case nil:
		return []string{}, nil
	case List:
		return append([]string(nil), v...), nil
	default:
		return nil, &errors.ConfigurationError{
			Message: fmt.Sprintf("the extra options for '%s' are not in an array", strings.Join(path, ".")),
			Path:    path,
		}
	}
}

// appendPath copies so sibling branches never share a backing array.
func appendPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)

	return append(out, segment)
}

// ResolveIgnoring resolves path and removes every argument equal to one of
// ignored, which are options the caller manages itself. The removed arguments
// are returned separately so the caller can report them.
func (t *Tree) ResolveIgnoring(path []string, ignored ...string) (args, dropped []string, err error) {
	resolved, err := t.Resolve(path...)
	if err != nil {
		return nil, nil, err
	}

	args = make([]string, 0, len(resolved))

	for _, arg := range resolved {
		if slices.Contains(ignored, arg) {
			dropped = append(dropped, arg)

			continue
		}

		args = append(args, arg)
	}

	return args, dropped, nil
}
