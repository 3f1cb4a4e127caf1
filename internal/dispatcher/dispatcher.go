// Package dispatcher resolves an operator symbol to its provider and invokes
// it. Cross-cutting concerns (logging, tracing, caching, history) wrap the
// core handler as Middleware.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/opcalc/internal/operation"
	"github.com/zjrosen/opcalc/internal/registry"
)

var (
	// ErrOperationNotFound is returned when no provider handles the operator.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrProviderConstruction matches a provider whose factory failed.
	ErrProviderConstruction = registry.ErrConstruction
)

// Resolver maps a symbol to an Operation. *registry.Registry implements it.
type Resolver interface {
	Resolve(symbol rune) (operation.Operation, error)
}

// Request is one dispatch: an operator applied to two operands.
type Request struct {
	ID       string
	Operator rune
	Left     int
	Right    int
}

// Handler processes a dispatch request.
type Handler interface {
	Handle(ctx context.Context, req Request) (int, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (int, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) (int, error) {
	return f(ctx, req)
}

// Middleware wraps a Handler to add behavior around dispatch.
type Middleware func(Handler) Handler

// ChainMiddleware applies middlewares so that the first one is outermost:
// ChainMiddleware(h, a, b) == a(b(h)).
func ChainMiddleware(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMiddleware appends middleware. The first middleware given wraps outermost.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(d *Dispatcher) {
		d.middlewares = append(d.middlewares, middlewares...)
	}
}

// WithIDGenerator overrides request ID generation (uuid v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) {
		d.newID = fn
	}
}

// Dispatcher routes requests to providers through the middleware chain.
type Dispatcher struct {
	resolver    Resolver
	middlewares []Middleware
	handler     Handler
	newID       func() string
}

// New creates a Dispatcher over resolver.
func New(resolver Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver: resolver,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handler = ChainMiddleware(HandlerFunc(d.invoke), d.middlewares...)
	return d
}

// Dispatch resolves operator and applies it to left and right.
//
// A missing provider yields ErrOperationNotFound. A failed factory yields an
// error matching ErrProviderConstruction. Errors returned by the operation
// itself are passed through untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, operator rune, left, right int) (int, error) {
	req := Request{
		ID:       d.newID(),
		Operator: operator,
		Left:     left,
		Right:    right,
	}
	return d.handler.Handle(ctx, req)
}

func (d *Dispatcher) invoke(ctx context.Context, req Request) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	op, err := d.resolver.Resolve(req.Operator)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrOperationNotFound, req.Operator)
		}
		return 0, err
	}
	return op.Operate(req.Left, req.Right)
}
