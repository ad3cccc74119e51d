// Package resolver maps the dashboard's contact identifiers to its main
// identifiers. The two schemes are used interchangeably by different legacy
// endpoints with no documented equivalence; resolved mappings are treated as
// immutable and cached write-once.
package resolver

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/cache"
	"github.com/brandon/mcp-videoteam/internal/translator"
	"github.com/brandon/mcp-videoteam/internal/transport"
)

// resolveState tracks one identifier through its per-run lifecycle.
type resolveState int

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
	stateUnresolvable
)

// Resolver resolves and caches contact-id to main-id mappings.
type Resolver struct {
	transport *transport.Client
	store     *cache.Store
	logger    *logrus.Logger

	mu     sync.Mutex
	states map[string]resolveState
}

// New creates a resolver backed by the given transport and cache store.
func New(tc *transport.Client, store *cache.Store, logger *logrus.Logger) *Resolver {
	return &Resolver{
		transport: tc,
		store:     store,
		logger:    logger,
		states:    map[string]resolveState{},
	}
}

// Resolve returns the main identifier for a contact identifier. The cache is
// consulted first, so resolving an already-resolved id is a no-op read. A
// definitive not-found marks the id unresolvable for this run only. The
// dashboard's data can lag, so negative results are never persisted.
func (r *Resolver) Resolve(ctx context.Context, contactID string) (string, error) {
	if contactID == "" {
		return "", bridgerr.New(bridgerr.KindNotFound, "empty contact id")
	}

	mainID, ok, err := r.store.GetMainID(contactID)
	if err != nil {
		return "", err
	}
	if ok {
		r.setState(contactID, stateResolved)
		return mainID, nil
	}

	if r.state(contactID) == stateUnresolvable {
		return "", bridgerr.New(bridgerr.KindNotFound, "no main id for contact %s", contactID)
	}

	r.setState(contactID, stateResolving)
	mainID, err = r.lookup(ctx, contactID)
	if err != nil {
		if bridgerr.Is(err, bridgerr.KindNotFound) {
			r.setState(contactID, stateUnresolvable)
		} else {
			r.setState(contactID, stateUnresolved)
		}
		return "", err
	}

	if err := r.store.PutMainID(contactID, mainID); err != nil {
		r.logger.WithError(err).WithField("contact_id", contactID).Warn("Failed to cache identifier mapping")
	}
	r.setState(contactID, stateResolved)
	return mainID, nil
}

// lookup fetches the profile page and extracts the main identifier.
func (r *Resolver) lookup(ctx context.Context, contactID string) (string, error) {
	resp, err := r.transport.Do(ctx, transport.RequestSpec{
		Path: translator.PathAthleteProfile + contactID,
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode == 404 {
		return "", bridgerr.New(bridgerr.KindNotFound, "no profile for contact %s", contactID).WithStatus(404)
	}
	if err := transport.RequireOK(resp, "profile page"); err != nil {
		return "", err
	}

	mainID := translator.ExtractMainID(resp.Body)
	if mainID == "" {
		return "", bridgerr.New(bridgerr.KindNotFound, "profile for contact %s carries no main id", contactID)
	}
	return mainID, nil
}

// BatchResult is the outcome of a batch resolution: a partial mapping plus
// the number of identifiers that could not be resolved.
type BatchResult struct {
	MainIDs  map[string]string
	Failures int
}

// ResolveBatch resolves a set of identifiers in bounded-size concurrent
// groups, continuing past individual failures. Most historical records arrive
// without the main identifier, so backfill has to tolerate gaps rather than
// block the listing path.
func (r *Resolver) ResolveBatch(ctx context.Context, contactIDs []string, concurrency int) BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	result := BatchResult{MainIDs: map[string]string{}}
	var resultMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	seen := map[string]bool{}
	for _, id := range contactIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		contactID := id
		g.Go(func() error {
			mainID, err := r.Resolve(ctx, contactID)
			resultMu.Lock()
			defer resultMu.Unlock()
			if err != nil {
				result.Failures++
				if !bridgerr.Is(err, bridgerr.KindNotFound) {
					r.logger.WithError(err).WithField("contact_id", contactID).Warn("Identifier resolution failed")
				}
				return nil
			}
			result.MainIDs[contactID] = mainID
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	_ = g.Wait()
	return result
}

func (r *Resolver) state(contactID string) resolveState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[contactID]
}

func (r *Resolver) setState(contactID string, s resolveState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[contactID] = s
}
