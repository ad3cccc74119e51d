package translator

import (
	"regexp"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
)

// ExtractFormToken pulls the anti-forgery token out of an authenticated page.
func ExtractFormToken(body []byte) (string, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.KindParseFailed, err, "token page did not parse")
	}
	token := inputValue(doc, "_token")
	if token == "" {
		return "", bridgerr.New(bridgerr.KindParseFailed, "no anti-forgery token on page (%d bytes)", len(body))
	}
	return token, nil
}

// mainIDPatterns locate the main identifier on a profile page. Tried in
// order: the media URL, the hidden form input, then the script/attribute
// spellings. The page has carried the id in different places over time.
var mainIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/athlete/media/\d+/(\d+)`),
	regexp.MustCompile(`name="athlete_main_id"[^>]*value="(\d+)"`),
	regexp.MustCompile(`athlete_main_id["\s:=]+["']?(\d+)`),
	regexp.MustCompile(`athleteMainId["\s:=]+["']?(\d+)`),
}

// ExtractMainID finds the main identifier on an athlete profile page,
// returning "" when no pattern matches.
func ExtractMainID(body []byte) string {
	for _, pat := range mainIDPatterns {
		if m := pat.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}
	return ""
}
