package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// ErrNoMatch is returned by Match when no route accepts the request.
var ErrNoMatch = errors.New("router: no route matches the request")

// Params holds the path parameters captured by a match.
type Params map[string]string

// noop marks compiled routes as handled; dispatch goes through bindings.
var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// Dispatcher selects the operation for a request from an ordered route table.
// It holds no state besides the compiled table, so dispatch depends only on
// the table and the request.
type Dispatcher struct {
	router   *mux.Router
	bindings map[Operation]http.Handler
	notFound http.Handler
}

// NewDispatcher compiles the route table. Every operation in the table must
// have a binding.
func NewDispatcher(table []Node, bindings map[Operation]http.Handler, notFound http.Handler) (*Dispatcher, error) {
	router := mux.NewRouter()
	if err := compile(router, table, bindings); err != nil {
		return nil, err
	}
	return &Dispatcher{
		router:   router,
		bindings: bindings,
		notFound: notFound,
	}, nil
}

func compile(router *mux.Router, nodes []Node, bindings map[Operation]http.Handler) error {
	for _, n := range nodes {
		if len(n.Children) > 0 {
			route := router.PathPrefix(n.Path)
			if n.Guard != nil {
				guard := n.Guard
				route = route.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
					return guard(r)
				})
			}
			if err := route.GetError(); err != nil {
				return fmt.Errorf("invalid route group %q: %w", n.Path, err)
			}
			if err := compile(route.Subrouter(), n.Children, bindings); err != nil {
				return err
			}
			continue
		}

		if _, ok := bindings[n.Operation]; !ok {
			return fmt.Errorf("no handler bound for operation %q", n.Operation)
		}
		route := router.Path(n.Path).Methods(n.Method).Name(string(n.Operation)).Handler(noop)
		if err := route.GetError(); err != nil {
			return fmt.Errorf("invalid route %s %q: %w", n.Method, n.Path, err)
		}
	}
	return nil
}

// Match returns the operation and path parameters for r, or ErrNoMatch.
func (d *Dispatcher) Match(r *http.Request) (Operation, Params, error) {
	var m mux.RouteMatch
	if !d.router.Match(r, &m) || m.MatchErr != nil || m.Route == nil {
		return "", nil, ErrNoMatch
	}
	return Operation(m.Route.GetName()), Params(m.Vars), nil
}

// ServeHTTP dispatches r to the handler bound to its operation.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op, params, err := d.Match(r)
	if err != nil {
		d.notFound.ServeHTTP(w, r)
		return
	}
	d.bindings[op].ServeHTTP(w, mux.SetURLVars(r, params))
}
