package router

import "net/http"

// Operation names a product operation a request can dispatch to.
type Operation string

// Product operations.
const (
	OpListAll      Operation = "listAll"
	OpGetOne       Operation = "getOne"
	OpCreate       Operation = "create"
	OpUpdate       Operation = "update"
	OpDelete       Operation = "delete"
	OpDeleteAll    Operation = "deleteAll"
	OpStreamEvents Operation = "streamEvents"
)

// BasePaths are the equivalent route trees serving the product API.
var BasePaths = []string{"/products", "/functional-products"}

// Node is one entry of the route table.
//
// A node with children is a group: its path is a prefix and its guard, if
// any, must accept the request before any child is tried. A node without
// children is a route bound to an operation. Siblings are tried in order and
// the first full match wins.
type Node struct {
	Path      string
	Guard     Guard
	Method    string
	Operation Operation
	Children  []Node
}

// Route returns a leaf node.
func Route(method, path string, op Operation) Node {
	return Node{Method: method, Path: path, Operation: op}
}

// Group returns a node nesting children under a path prefix.
func Group(path string, guard Guard, children ...Node) Node {
	return Node{Path: path, Guard: guard, Children: children}
}

// collection binds op to the base path with and without a trailing slash.
func collection(method string, op Operation) []Node {
	return []Node{Route(method, "", op), Route(method, "/", op)}
}

// ProductRoutes builds the product route table under each base path.
//
// The literal /events route precedes the /{id} group; otherwise "events"
// would be captured as a product ID.
func ProductRoutes(bases ...string) []Node {
	nodes := make([]Node, 0, len(bases))
	for _, base := range bases {
		var children []Node
		children = append(children, collection(http.MethodGet, OpListAll)...)
		children = append(children, collection(http.MethodPost, OpCreate)...)
		children = append(children, collection(http.MethodDelete, OpDeleteAll)...)
		children = append(children,
			Route(http.MethodGet, "/events", OpStreamEvents),
			Group("/{id}", nil,
				Route(http.MethodGet, "", OpGetOne),
				Route(http.MethodPut, "", OpUpdate),
				Route(http.MethodDelete, "", OpDelete),
			),
		)
		nodes = append(nodes, Group(base, JSONOrEventStream, children...))
	}
	return nodes
}
