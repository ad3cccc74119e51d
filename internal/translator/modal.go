package translator

import (
	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// ParseAssignmentModal extracts the per-operation anti-forgery token, the
// three option lists, and any pre-filled contact fields from the assignment
// modal page. defaultOwnerID selects the preferred owner when present;
// otherwise the first owner is the default.
func ParseAssignmentModal(body []byte, defaultOwnerID string) (*types.AssignmentModal, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.KindParseFailed, err, "assignment modal did not parse (%d bytes)", len(body))
	}

	modal := &types.AssignmentModal{
		FormToken:          inputValue(doc, "_token"),
		Owners:             selectOptions(doc, "videoscoutassignedto"),
		Stages:             selectOptions(doc, "video_progress_stage"),
		Statuses:           selectOptions(doc, "video_progress_status"),
		ContactSearchValue: inputValue(doc, "contact"),
		ContactID:          inputValue(doc, "contact_task"),
		MainID:             inputValue(doc, "athlete_main_id"),
		MessageID:          inputValue(doc, "messageid"),
	}

	modal.DefaultSearchFor = selectedValue(doc, "contactfor")
	if modal.DefaultSearchFor == "" {
		modal.DefaultSearchFor = "athlete"
	}

	if modal.FormToken == "" && len(modal.Owners) == 0 {
		return nil, bridgerr.New(bridgerr.KindParseFailed, "assignment modal matched no known shape (%d bytes)", len(body))
	}

	if len(modal.Owners) > 0 {
		owner := modal.Owners[0]
		for _, o := range modal.Owners {
			if defaultOwnerID != "" && o.Value == defaultOwnerID {
				owner = o
				break
			}
		}
		modal.DefaultOwner = &owner
	}

	return modal, nil
}
