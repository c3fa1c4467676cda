// Package fallback tries an ordered list of sources and keeps the first one
// that produces a usable result.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/aniweb/internal/logging"
)

// ErrExhausted is returned when every attempt failed or came back empty.
var ErrExhausted = errors.New("all attempts failed")

// ErrEmpty marks an attempt that succeeded but had nothing to offer.
var ErrEmpty = errors.New("empty result")

type Attempt[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// First runs attempts in order and returns the first result for which empty
// reports false. A nil empty treats every successful result as usable.
func First[T any](ctx context.Context, empty func(T) bool, attempts ...Attempt[T]) (T, error) {
	log := logging.For("fallback")
	var zero T
	errs := []error{ErrExhausted}

	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		res, err := a.Fetch(ctx)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			log.WithField("attempt", a.Name).WithError(err).Debug("attempt failed")
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
		case empty != nil && empty(res):
			log.WithField("attempt", a.Name).Debug("attempt returned nothing")
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, ErrEmpty))
		default:
			log.WithField("attempt", a.Name).Debug("attempt succeeded")
			return res, nil
		}
	}

	return zero, errors.Join(errs...)
}
