package translator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// previewMaxLen bounds an uncleaned preview when no reply boundary is found.
const previewMaxLen = 300

// replyBoundaryPatterns match the "On <date> ... wrote:" line that starts a
// quoted reply. Tried in order: the team-signature form first, then the
// generic mail-client forms. Only text before the first match is kept.
var replyBoundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)On\s.+?\sVideo\s.*?wrote:`),
	regexp.MustCompile(`(?is)\n\s*On\s.+?\sat\s.+?wrote:\s*\n`),
	regexp.MustCompile(`(?is)\n\s*On\s.+?\swrote:\s*\n`),
	regexp.MustCompile(`(?is)-{2,}\s*On\s.+?wrote:\s*-{2,}`),
}

// CleanPreview strips quoted-reply text from a message preview, keeping only
// the text before the first reply boundary. Without a boundary the preview is
// truncated to a sane length.
func CleanPreview(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, pat := range replyBoundaryPatterns {
		if loc := pat.FindStringIndex(text); loc != nil {
			return strings.TrimSpace(text[:loc[0]])
		}
	}
	return truncateRunes(text, previewMaxLen)
}

// truncateRunes cuts text to at most n characters. The cut never splits a
// rune; previews feed straight into JSON output and must stay valid UTF-8.
func truncateRunes(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n]))
}
