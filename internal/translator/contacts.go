package translator

import (
	"golang.org/x/net/html"

	"github.com/brandon/mcp-videoteam/pkg/types"
)

// ParseContactSearchResults extracts contacts from the search results table.
// The first row is always a header and is skipped; rows without the
// selectable-row input are decorative and are skipped too.
func ParseContactSearchResults(body []byte) []types.Contact {
	doc, err := parseDoc(body)
	if err != nil {
		return nil
	}

	rows := findAll(doc, func(n *html.Node) bool { return isElem(n, "tr") })
	if len(rows) <= 1 {
		return nil
	}

	var contacts []types.Contact
	for _, row := range rows[1:] {
		input := findFirst(row, func(n *html.Node) bool {
			return isElem(n, "input") && hasClass(n, "contactselected")
		})
		if input == nil {
			continue
		}

		contact := types.Contact{
			ContactID: attr(input, "contactid"),
			MainID:    attr(input, "athlete_main_id"),
			Name:      attr(input, "contactname"),
		}

		cells := findAll(row, func(n *html.Node) bool { return isElem(n, "td") })
		if len(cells) >= 5 {
			contact.Ranking = textContent(cells[1])
			contact.GradYear = textContent(cells[2])
			contact.State = textContent(cells[3])
			contact.Sport = textContent(cells[4])
		}

		contacts = append(contacts, contact)
	}

	return contacts
}
