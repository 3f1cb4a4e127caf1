// Package calculator composes the parser and dispatcher into the single
// text-in, text-out operation exposed to callers.
package calculator

import (
	"context"
	"errors"
	"strconv"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/parser"
)

// Fixed user-facing replies.
const (
	MsgParseFailed     = "Could not parse command."
	MsgNotFound        = "Operation Not Found!"
	MsgOperationFailed = "Operation Failed."
)

// Dispatcher is the part of *dispatcher.Dispatcher the calculator needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, operator rune, left, right int) (int, error)
}

// Calculator turns a raw command line into a reply line.
type Calculator struct {
	dispatcher Dispatcher
}

// New creates a Calculator over d.
func New(d Dispatcher) *Calculator {
	return &Calculator{dispatcher: d}
}

// Calculate parses raw, dispatches it and renders the reply.
//
// Parse failures, unknown operators and provider construction failures are
// recovered here and become fixed reply strings with a nil error. A failure
// raised by the operation itself is returned as the error with an empty
// reply; the caller decides whether to keep serving.
func (c *Calculator) Calculate(ctx context.Context, raw string) (string, error) {
	cmd, err := parser.Parse(raw)
	if err != nil {
		log.Debug(log.CatParse, "command rejected", "input", raw, "error", err.Error())
		return MsgParseFailed, nil
	}

	result, err := c.dispatcher.Dispatch(ctx, cmd.Operator, cmd.Left, cmd.Right)
	switch {
	case err == nil:
		return strconv.Itoa(result), nil
	case errors.Is(err, dispatcher.ErrOperationNotFound):
		return MsgNotFound, nil
	case errors.Is(err, dispatcher.ErrProviderConstruction):
		log.ErrorErr(log.CatDispatch, "provider unavailable", err, "command", cmd.String())
		return MsgOperationFailed, nil
	default:
		return "", err
	}
}
