package hdpath

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// HardenedOffset is added to the index of every hardened path node.
	HardenedOffset uint32 = 0x80000000

	// RootToken is the literal marking the master node of a path.
	RootToken = "m"
)

// Node is a single step of a derivation path.
type Node struct {
	// Depth is the position in the path, 0 for the root.
	Depth uint32
	// Token is the lower-cased path segment the node was parsed from.
	Token string
	// Hardened is set when the segment carries a ' or h marker.
	Hardened bool
	// Index is the child number including the hardening offset.
	Index uint32
}

// IndexBytes returns the child number as the 4 byte big-endian value hashed during derivation.
func (n Node) IndexBytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n.Index)
	return b
}

// IsRoot reports whether the node is the master node.
func (n Node) IsRoot() bool {
	return n.Depth == 0
}

// String renders the node in canonical form, using ' as hardening marker.
func (n Node) String() string {
	if n.IsRoot() {
		return RootToken
	}

	if n.Hardened {
		return strconv.FormatUint(uint64(n.Index-HardenedOffset), 10) + "'"
	}

	return strconv.FormatUint(uint64(n.Index), 10)
}

// Path is an ordered list of nodes starting at the root.
type Path []Node

// Root returns the master node.
func (p Path) Root() Node {
	return p[0]
}

// Children returns every node below the root in derivation order.
func (p Path) Children() []Node {
	return p[1:]
}

// Leaf returns the deepest node of the path.
func (p Path) Leaf() Node {
	return p[len(p)-1]
}

// Depth returns the depth of the leaf node.
func (p Path) Depth() uint32 {
	return p.Leaf().Depth
}

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, n := range p {
		parts = append(parts, n.String())
	}

	return strings.Join(parts, "/")
}

// ParseError is returned for paths that do not follow m/<index>['|h]/...
type ParseError struct {
	Path     string
	Position int
	Token    string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid derivation path %q: segment %d (%q) %s", e.Path, e.Position, e.Token, e.Reason)
}

// Parse turns a textual path such as m/44'/0'/0'/0/1 into its nodes.
// Both ' and h mark hardened segments, the path is case-insensitive and an
// empty string is treated as the bare root "m".
func Parse(path string) (Path, error) {
	normalized := strings.ToLower(strings.TrimSpace(path))
	if normalized == "" {
		normalized = RootToken
	}

	tokens := strings.Split(normalized, "/")
	if tokens[0] != RootToken {
		return nil, &ParseError{Path: path, Position: 0, Token: tokens[0], Reason: "must be the root marker m"}
	}

	nodes := make(Path, 0, len(tokens))
	nodes = append(nodes, Node{Depth: 0, Token: RootToken})

	for i, token := range tokens[1:] {
		position := i + 1

		n, err := parseToken(token)
		if err != nil {
			return nil, &ParseError{Path: path, Position: position, Token: token, Reason: err.Error()}
		}

		n.Depth = uint32(position) //nolint:gosec // bounded by the number of path segments
		nodes = append(nodes, n)
	}

	return nodes, nil
}

// MustParse is like Parse but panics on invalid input. Intended for constant paths.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

// FromIndices builds a path from raw child numbers. Indices at or above
// HardenedOffset produce hardened nodes.
func FromIndices(indices ...uint32) Path {
	nodes := make(Path, 0, len(indices)+1)
	nodes = append(nodes, Node{Depth: 0, Token: RootToken})

	for i, index := range indices {
		n := Node{
			Depth:    uint32(i + 1), //nolint:gosec // bounded by len(indices)
			Hardened: index >= HardenedOffset,
			Index:    index,
		}
		n.Token = n.String()
		nodes = append(nodes, n)
	}

	return nodes
}

// Hardened returns the hardened child number for index.
func Hardened(index uint32) uint32 {
	return index + HardenedOffset
}

func parseToken(token string) (Node, error) {
	digits := token
	hardened := false

	if strings.HasSuffix(digits, "'") || strings.HasSuffix(digits, "h") {
		hardened = true
		digits = digits[:len(digits)-1]
	}

	if digits == "" {
		return Node{}, errors.New("has no index")
	}

	for _, c := range digits {
		if c < '0' || c > '9' {
			return Node{}, errors.New("is not a decimal index")
		}
	}

	value, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || uint32(value) >= HardenedOffset {
		return Node{}, errors.Errorf("index must be below %d", HardenedOffset)
	}

	index := uint32(value)
	if hardened {
		index += HardenedOffset
	}

	return Node{Token: token, Hardened: hardened, Index: index}, nil
}
