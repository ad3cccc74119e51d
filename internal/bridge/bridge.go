// Package bridge wires the transport, cache, and domain engines into one
// facade the tool layer calls. It owns component lifecycle; tools stay free of
// construction and teardown concerns.
package bridge

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/cache"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/contacts"
	"github.com/brandon/mcp-videoteam/internal/inbox"
	"github.com/brandon/mcp-videoteam/internal/resolver"
	"github.com/brandon/mcp-videoteam/internal/session"
	"github.com/brandon/mcp-videoteam/internal/translator"
	"github.com/brandon/mcp-videoteam/internal/transport"
	"github.com/brandon/mcp-videoteam/internal/workflow"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// Bridge aggregates every dashboard operation behind typed methods.
type Bridge struct {
	cfg    *config.Config
	logger *logrus.Logger

	cache     *cache.Cache
	store     *cache.Store
	sessions  *session.Store
	transport *transport.Client
	resolver  *resolver.Resolver
	contacts  *contacts.Engine
	paginator *inbox.Paginator
	workflow  *workflow.Workflow
}

// New builds the full component graph from configuration.
func New(cfg *config.Config, logger *logrus.Logger) (*Bridge, error) {
	c, err := cache.NewCache(cfg.CachePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	store := cache.NewStore(c, logger)

	sessions := session.NewStore(cfg.SessionPath, logger)
	sessions.Load()

	tc, err := transport.New(cfg, sessions, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize transport: %w", err)
	}

	res := resolver.New(tc, store, logger)
	engine := contacts.New(tc, logger)

	return &Bridge{
		cfg:       cfg,
		logger:    logger,
		cache:     c,
		store:     store,
		sessions:  sessions,
		transport: tc,
		resolver:  res,
		contacts:  engine,
		paginator: inbox.New(cfg, tc, store, res, logger),
		workflow:  workflow.New(cfg, tc, engine, res, logger),
	}, nil
}

// Start validates or establishes the dashboard session and prunes expired
// listing snapshots. The transport recovers from later session expiry on its
// own; Start only front-loads the first login.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.transport.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	if err := b.store.PruneThreadPages(b.cfg.ThreadCacheTTL); err != nil {
		b.logger.WithError(err).Warn("Failed to prune listing cache")
	}
	return nil
}

// GetInboxThreads lists inbox threads with filtering and pagination.
func (b *Bridge) GetInboxThreads(ctx context.Context, opts inbox.ListOptions) ([]types.InboxThread, error) {
	return b.paginator.FetchThreads(ctx, opts)
}

// GetMessageDetail fetches the full body of one message.
func (b *Bridge) GetMessageDetail(ctx context.Context, messageID, itemCode string) (*types.MessageDetail, error) {
	resp, err := b.transport.Do(ctx, transport.RequestSpec{
		Path:  translator.PathMessageDetail,
		Query: translator.BuildMessageDetailRequest(messageID, itemCode, b.cfg.UserTimezone),
		Ajax:  true,
	})
	if err != nil {
		return nil, err
	}
	if err := transport.RequireOK(resp, "message detail"); err != nil {
		return nil, err
	}
	return translator.ParseMessageDetail(resp.Body, messageID, itemCode)
}

// SearchContacts runs a single-category contact search.
func (b *Bridge) SearchContacts(ctx context.Context, query, category string) ([]types.Contact, error) {
	return b.contacts.Search(ctx, query, category)
}

// ResolveContact runs the athlete-first, parent-fallback resolution protocol.
func (b *Bridge) ResolveContact(ctx context.Context, query, category string) (*contacts.Outcome, error) {
	return b.contacts.Resolve(ctx, query, category, nil)
}

// GetAssignmentModal fetches the assignment form state for a thread.
func (b *Bridge) GetAssignmentModal(ctx context.Context, messageID, itemCode string) (*types.AssignmentModal, error) {
	return b.workflow.FetchModal(ctx, messageID, itemCode)
}

// GetAssignmentDefaults looks up the recommended stage/status for a contact.
func (b *Bridge) GetAssignmentDefaults(ctx context.Context, contactID string) types.AssignmentDefaults {
	return b.workflow.FetchDefaults(ctx, contactID)
}

// AssignThread runs the full assignment workflow for one thread.
func (b *Bridge) AssignThread(ctx context.Context, req workflow.AssignRequest) (*workflow.AssignResult, error) {
	return b.workflow.Assign(ctx, req)
}

// ResolveAthleteIDs resolves main identifiers for a batch of contact ids.
func (b *Bridge) ResolveAthleteIDs(ctx context.Context, contactIDs []string) resolver.BatchResult {
	return b.resolver.ResolveBatch(ctx, contactIDs, b.cfg.ResolveConcurrency)
}

// Close releases the bridge's resources.
func (b *Bridge) Close() error {
	return b.cache.Close()
}
