package translator

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/brandon/mcp-videoteam/pkg/types"
)

// threadContainerClass is the structural class the listing page currently
// uses for one thread. Containers are located by the itemid attribute first
// and by this class second; the markup has renamed classes before.
const threadContainerClass = "ImageProfile"

// ParseInboxListing extracts the threads from one inbox listing page.
// markerClass is the icon class that flags an assignable thread. A body that
// matches no known shape yields an empty slice plus a logged warning so the
// caller can decide whether to retry or stop paginating.
func ParseInboxListing(body []byte, markerClass string, logger *logrus.Logger) []types.InboxThread {
	doc, err := parseDoc(body)
	if err != nil {
		logger.WithError(err).WithField("body_size", len(body)).Warn("Inbox listing did not parse")
		return nil
	}

	containers := threadContainers(doc)
	if len(containers) == 0 {
		if len(strings.TrimSpace(string(body))) > 0 {
			logger.WithField("body_size", len(body)).Debug("Inbox listing page contained no thread containers")
		}
		return nil
	}

	threads := make([]types.InboxThread, 0, len(containers))
	assignable := 0
	for _, elem := range containers {
		thread, ok := parseThreadElement(elem, markerClass)
		if !ok {
			continue
		}
		if thread.CanAssign {
			assignable++
		}
		threads = append(threads, thread)
	}

	if len(threads) > 0 && assignable == 0 {
		// Possible marker drift: the markup has renamed the assignability
		// icon before. See ASSIGN_MARKER_CLASS.
		logger.WithFields(logrus.Fields{
			"threads":      len(threads),
			"marker_class": markerClass,
		}).Warn("No assignable threads on a non-empty page")
	}

	return threads
}

// threadContainers locates thread elements, trying structural strategies in
// order: the itemid attribute, then the container class.
func threadContainers(doc *html.Node) []*html.Node {
	byAttr := findAll(doc, func(n *html.Node) bool {
		return isElem(n, "div") && attr(n, "itemid") != ""
	})
	if len(byAttr) > 0 {
		return byAttr
	}
	return findAll(doc, func(n *html.Node) bool {
		return isElem(n, "div") && hasClass(n, threadContainerClass)
	})
}

func parseThreadElement(elem *html.Node, markerClass string) (types.InboxThread, bool) {
	itemID := attr(elem, "itemid")
	if itemID == "" {
		return types.InboxThread{}, false
	}

	id := attr(elem, "id")
	if id == "" {
		id = itemID
	}
	itemCode := attr(elem, "itemcode")
	if itemCode == "" {
		itemCode = itemID
	}

	name := classText(elem, "msg-sendr-name")
	if name == "" {
		name = "Unknown"
	}

	thread := types.InboxThread{
		ID:          id,
		ItemCode:    itemCode,
		ContactID:   attr(elem, "contacttask"),
		MainID:      attr(elem, "athletemainid"),
		SenderName:  name,
		SenderEmail: classText(elem, "hidden"),
		Subject:     classText(elem, "tit_line1"),
		Preview:     CleanPreview(classText(elem, "tit_univ")),
		Timestamp:   classText(elem, "date_css"),
		Unread:      hasClass(elem, "unread"),
	}

	if ts := ParseListingTime(thread.Timestamp); ts != nil {
		thread.Date = ts
	}

	marker := findFirst(elem, func(n *html.Node) bool {
		return isElem(n, "i") && hasClass(n, markerClass)
	})
	thread.CanAssign = marker != nil

	for _, att := range findAll(elem, func(n *html.Node) bool { return hasClass(n, "attachment-item") }) {
		u := attr(att, "data-url")
		name := attr(att, "data-filename")
		if name == "" {
			name = "Unknown"
		}
		thread.Attachments = append(thread.Attachments, types.Attachment{
			FileName:     name,
			URL:          u,
			Expiry:       attr(att, "data-expiry"),
			Downloadable: u != "",
		})
	}

	return thread, true
}

// listingTimeLayouts are the timestamp shapes the listing page has been seen
// to emit. Normalization is best-effort; the raw string is always kept.
var listingTimeLayouts = []string{
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseListingTime normalizes a raw listing timestamp, returning nil when no
// known layout matches.
func ParseListingTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range listingTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}
