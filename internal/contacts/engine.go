// Package contacts disambiguates which party authored an inbound message.
// A message can come from the athlete or from a parent with nothing to tell
// them apart except which search succeeds, so the engine searches the default
// category first and falls back to the other.
package contacts

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/translator"
	"github.com/brandon/mcp-videoteam/internal/transport"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// Search categories the dashboard understands.
const (
	CategoryAthlete = "athlete"
	CategoryParent  = "parent"
)

// Outcome is the result of a contact resolution. NoMatch distinguishes
// "needs manual resolution" from "searched one category and found nothing";
// callers must be able to tell those apart.
type Outcome struct {
	Contacts []types.Contact `json:"contacts"`
	// Category is the effective category for the remainder of the workflow:
	// the one whose search actually produced the contacts.
	Category string `json:"category"`
	NoMatch  bool   `json:"no_match"`
	// Fallback is synthesized from modal prefill data when both searches
	// fail but the dashboard already has an association on file. It is never
	// set when real search results exist.
	Fallback *types.Contact `json:"fallback,omitempty"`
}

// Engine runs the two-tier search-with-fallback protocol.
type Engine struct {
	transport *transport.Client
	logger    *logrus.Logger
}

// New creates a contact resolution engine.
func New(tc *transport.Client, logger *logrus.Logger) *Engine {
	return &Engine{transport: tc, logger: logger}
}

// Search runs a single contact search in one category.
func (e *Engine) Search(ctx context.Context, query, category string) ([]types.Contact, error) {
	resp, err := e.transport.Do(ctx, transport.RequestSpec{
		Path:  translator.PathContactSearch,
		Query: translator.BuildContactSearchRequest(query, category),
	})
	if err != nil {
		return nil, err
	}
	if err := transport.RequireOK(resp, "contact search"); err != nil {
		return nil, err
	}
	return translator.ParseContactSearchResults(resp.Body), nil
}

// Resolve searches the default category, then the alternate. The order
// encodes an observed business rule: most messages come from the athlete, so
// athlete-first unless the modal says otherwise. modal may be nil; when both
// searches fail it is the only source of a fallback contact.
func (e *Engine) Resolve(ctx context.Context, query, defaultCategory string, modal *types.AssignmentModal) (*Outcome, error) {
	if defaultCategory != CategoryParent {
		defaultCategory = CategoryAthlete
	}
	alternate := CategoryParent
	if defaultCategory == CategoryParent {
		alternate = CategoryAthlete
	}

	found, err := e.Search(ctx, query, defaultCategory)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return &Outcome{Contacts: found, Category: defaultCategory}, nil
	}

	found, err = e.Search(ctx, query, alternate)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		e.logger.WithFields(logrus.Fields{
			"query":    query,
			"category": alternate,
		}).Info("Contact found in alternate category")
		return &Outcome{Contacts: found, Category: alternate}, nil
	}

	outcome := &Outcome{Category: defaultCategory, NoMatch: true}
	if fallback := synthesizeFallback(modal); fallback != nil {
		e.logger.WithField("contact_id", fallback.ContactID).Info("Using modal prefill as fallback contact")
		outcome.Fallback = fallback
	}
	return outcome, nil
}

// synthesizeFallback builds a contact from the modal's pre-filled identifier
// when the dashboard already associated one with the thread.
func synthesizeFallback(modal *types.AssignmentModal) *types.Contact {
	if modal == nil || modal.ContactID == "" {
		return nil
	}
	return &types.Contact{
		ContactID: modal.ContactID,
		MainID:    modal.MainID,
		Name:      modal.ContactSearchValue,
	}
}
