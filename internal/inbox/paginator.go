// Package inbox fetches the video team inbox listing page by page. Pages are
// fetched sequentially because the dashboard's paging state is not safe for
// concurrent access from one session; main-id backfill for already fetched
// threads runs with bounded concurrency.
package inbox

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/cache"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/resolver"
	"github.com/brandon/mcp-videoteam/internal/translator"
	"github.com/brandon/mcp-videoteam/internal/transport"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// Assignability filters.
const (
	FilterBoth       = "both"
	FilterAssigned   = "assigned"
	FilterUnassigned = "unassigned"
)

// ListOptions narrows a listing fetch.
type ListOptions struct {
	Limit     int
	Filter    string
	ExcludeID string
	MaxPages  int
}

// Paginator iterates the inbox listing with stop conditions and defensive
// de-duplication.
type Paginator struct {
	cfg       *config.Config
	transport *transport.Client
	store     *cache.Store
	resolver  *resolver.Resolver
	logger    *logrus.Logger
}

// New creates a paginator. resolver may be nil to skip main-id backfill.
func New(cfg *config.Config, tc *transport.Client, store *cache.Store, res *resolver.Resolver, logger *logrus.Logger) *Paginator {
	return &Paginator{
		cfg:       cfg,
		transport: tc,
		store:     store,
		resolver:  res,
		logger:    logger,
	}
}

// FetchThreads fetches pages sequentially until the limit is reached, a page
// comes back empty, or the page cap is hit. A page failure aborts pagination
// but returns whatever accumulated so far alongside a partial-result error;
// partial data is actionable and must not be discarded.
func (p *Paginator) FetchThreads(ctx context.Context, opts ListOptions) ([]types.InboxThread, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = p.cfg.MaxPages
	}
	filter := opts.Filter
	if filter == "" {
		filter = FilterBoth
	}

	var threads []types.InboxThread
	seen := map[string]bool{}

	for page := 1; page <= maxPages && len(threads) < limit; page++ {
		pageThreads, err := p.fetchPage(ctx, page, filter)
		if err != nil {
			p.logger.WithError(err).WithField("page", page).Warn("Pagination aborted")
			return threads, bridgerr.Wrap(bridgerr.KindPartialResult, err, "pagination stopped at page %d with %d threads", page, len(threads))
		}
		if len(pageThreads) == 0 {
			break
		}

		added := 0
		for _, t := range pageThreads {
			if opts.ExcludeID != "" && t.ID == opts.ExcludeID {
				continue
			}
			if !matchesFilter(t, filter) {
				continue
			}
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			threads = append(threads, t)
			added++
		}

		p.logger.WithFields(logrus.Fields{
			"page":  page,
			"found": added,
			"total": len(threads),
		}).Debug("Fetched listing page")
	}

	if len(threads) > limit {
		threads = threads[:limit]
	}

	p.backfillMainIDs(ctx, threads)
	return threads, nil
}

// fetchPage returns one listing page, serving page snapshots from the
// short-TTL cache when fresh.
func (p *Paginator) fetchPage(ctx context.Context, page int, filter string) ([]types.InboxThread, error) {
	if p.store != nil {
		if cached, ok, err := p.store.GetThreadPage(filter, page, p.cfg.ThreadCacheTTL); err == nil && ok {
			return cached, nil
		}
	}

	resp, err := p.transport.Do(ctx, transport.RequestSpec{
		Path:  translator.PathInboxListing,
		Query: translator.BuildInboxListingRequest(page, translator.ListingFilters{Timezone: p.cfg.UserTimezone}),
	})
	if err != nil {
		return nil, err
	}
	if err := transport.RequireOK(resp, "inbox listing"); err != nil {
		return nil, err
	}

	threads := translator.ParseInboxListing(resp.Body, p.cfg.AssignMarkerClass, p.logger)

	if p.store != nil {
		if err := p.store.PutThreadPage(filter, page, threads); err != nil {
			p.logger.WithError(err).WithField("page", page).Warn("Failed to cache listing page")
		}
	}
	return threads, nil
}

func matchesFilter(t types.InboxThread, filter string) bool {
	switch filter {
	case FilterUnassigned:
		return t.CanAssign
	case FilterAssigned:
		return !t.CanAssign
	default:
		return true
	}
}

// backfillMainIDs fills in missing main identifiers for fetched threads.
// Best-effort: resolution failures leave the field empty.
func (p *Paginator) backfillMainIDs(ctx context.Context, threads []types.InboxThread) {
	if p.resolver == nil {
		return
	}

	var missing []string
	for _, t := range threads {
		if t.MainID == "" && t.ContactID != "" {
			missing = append(missing, t.ContactID)
		}
	}
	if len(missing) == 0 {
		return
	}

	result := p.resolver.ResolveBatch(ctx, missing, p.cfg.ResolveConcurrency)
	for i := range threads {
		if threads[i].MainID == "" {
			threads[i].MainID = result.MainIDs[threads[i].ContactID]
		}
	}

	if result.Failures > 0 {
		p.logger.WithFields(logrus.Fields{
			"resolved": len(result.MainIDs),
			"failed":   result.Failures,
		}).Debug("Main id backfill completed with gaps")
	}
}
