// Package comments reads and writes the markup stored in map card comments
// and arranges comments into reply threads.
//
// A comment body is HTML-ish text. A camera bookmark is a span carrying the
// view as JSON:
//
//	<span data-viewstate='{"longitude":-74,"latitude":40.7,...}'>north gate</span>
//
// Clicking a bookmark moves the card's map to that view.
package comments

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"

	"filmscout/mapview"
)

const viewstateAttr = "data-viewstate"

// Segment is a run of comment text. View is set when the run is a camera
// bookmark.
type Segment struct {
	Text string
	View *mapview.CameraState
}

// IsBookmark reports whether the segment jumps the camera.
func (s Segment) IsBookmark() bool {
	return s.View != nil
}

// Parse splits content into text and bookmark segments in reading order.
// Adjacent text is merged. A bookmark whose JSON cannot be decoded is kept
// as plain text.
func Parse(content string) []Segment {
	var (
		out    []Segment
		text   strings.Builder
		label  strings.Builder
		view   string
		inMark bool
		depth  int
	)

	flushText := func() {
		if text.Len() == 0 {
			return
		}
		out = append(out, Segment{Text: text.String()})
		text.Reset()
	}

	closeMark := func() {
		inMark = false
		vs, err := mapview.ParseJSON([]byte(view))
		if err != nil {
			text.WriteString(label.String())
			label.Reset()
			return
		}
		flushText()
		out = append(out, Segment{Text: label.String(), View: &vs})
		label.Reset()
	}

	z := xhtml.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			// io.EOF or a read error on a strings.Reader; either way the input is done.
			break
		}
		tok := z.Token()
		switch tt {
		case xhtml.TextToken:
			if inMark {
				label.WriteString(tok.Data)
			} else {
				text.WriteString(tok.Data)
			}
		case xhtml.StartTagToken:
			switch {
			case inMark && tok.Data == "span":
				depth++
			case !inMark && tok.Data == "span":
				if v, ok := attr(tok, viewstateAttr); ok {
					inMark = true
					view = v
					depth = 0
				}
			case tok.Data == "br":
				writeNewline(inMark, &text, &label)
			}
		case xhtml.SelfClosingTagToken:
			if tok.Data == "br" {
				writeNewline(inMark, &text, &label)
			}
		case xhtml.EndTagToken:
			if inMark && tok.Data == "span" {
				if depth == 0 {
					closeMark()
				} else {
					depth--
				}
			}
			if tok.Data == "p" || tok.Data == "div" {
				writeNewline(inMark, &text, &label)
			}
		}
	}
	if inMark {
		closeMark()
	}
	flushText()
	return out
}

func writeNewline(inMark bool, text, label *strings.Builder) {
	if inMark {
		label.WriteByte(' ')
		return
	}
	text.WriteByte('\n')
}

func attr(tok xhtml.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Bookmarks returns only the bookmark segments of content.
func Bookmarks(content string) []Segment {
	var out []Segment
	for _, seg := range Parse(content) {
		if seg.IsBookmark() {
			out = append(out, seg)
		}
	}
	return out
}

// Bookmark renders a camera bookmark for state labelled with label.
func Bookmark(label string, state mapview.CameraState) string {
	if strings.TrimSpace(label) == "" {
		label = "view"
	}
	return "<span " + viewstateAttr + "='" + html.EscapeString(state.MarshalJSONString()) + "'>" +
		html.EscapeString(label) + "</span>"
}

// PlainText flattens content to readable text, keeping bookmark labels.
func PlainText(content string) string {
	var b strings.Builder
	for _, seg := range Parse(content) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
