package overlay

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// Parse decodes an extra options tree from JSON or YAML.
//
// Every list element must be a string, number or boolean, and every wildcard
// entry must be a list. A null anywhere below the root is rejected like any
// other non-list value. Violations are ConfigurationErrors naming the path.
// Empty input, or a document that is just null, yields an empty tree.
//
// Numbers print the way JSON.stringify would. YAML integer literals are
// resolved by YAML rules first, so 0x10 and 0o10 are numbers and a leading
// zero such as 010 reads as octal; quote such values to pass them verbatim.
func Parse(data []byte) (*Tree, error) {
	if strings.TrimSpace(string(data)) == "" {
		return &Tree{}, nil
	}

	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.ConfigurationError{
			Message: "could not parse extra options",
			Err:     err,
		}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || isNull(doc.Content[0]) {
		return &Tree{}, nil
	}

	root, err := convert(doc.Content[0], nil)
	if err != nil {
		return nil, err
	}

	return &Tree{root: root}, nil
}

func convert(n *yaml.Node, path []string) (Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convert(n.Alias, path)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))

		for i, item := range n.Content {
			value, err := scalarString(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}

			list = append(list, value)
		}

		return list, nil
	case yaml.MappingNode:
		m := make(Map, len(n.Content)/2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			childPath := appendPath(path, key)

			child, err := convert(n.Content[i+1], childPath)
			if err != nil {
				return nil, err
			}

			if _, isMap := child.(Map); isMap && key == Wildcard {
				return nil, notAList(childPath)
			}

			m[key] = child
		}

		return m, nil
	default:
		return nil, notAList(path)
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// scalarString stringifies a list element the way the values would print in
// the pipeline's own configuration language: numbers in shortest form and
// booleans as true/false.
func scalarString(n *yaml.Node, path []string) (string, error) {
	if n.Kind == yaml.AliasNode {
		return scalarString(n.Alias, path)
	}

	if n.Kind != yaml.ScalarNode {
		return "", notPrimitive(path)
	}

	switch n.ShortTag() {
	case "!!str":
		return n.Value, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return "", notPrimitive(path)
		}

		return strconv.FormatBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", notPrimitive(path)
		}

		return formatNumber(f), nil
	default:
		return "", notPrimitive(path)
	}
}

// formatNumber renders f in shortest round-trip form, switching to
// exponent notation outside [1e-6, 1e21) with an unpadded exponent.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

	return mantissa + "e" + sign + digits
}

func notAList(path []string) error {
	return &errors.ConfigurationError{
		Message: fmt.Sprintf("the extra options for '%s' are not in an array", strings.Join(path, ".")),
		Path:    path,
	}
}

func notPrimitive(path []string) error {
	return &errors.ConfigurationError{
		Message: fmt.Sprintf("the extra option '%s' is not a string, number or boolean", strings.Join(path, ".")),
		Path:    path,
	}
}

func indexPath(path []string, i int) []string {
	if len(path) == 0 {
		return []string{fmt.Sprintf("[%d]", i)}
	}

	out := slices.Clone(path)
	out[len(out)-1] += fmt.Sprintf("[%d]", i)

	return out
}
