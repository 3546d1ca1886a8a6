package gmail

import (
	"encoding/base64"
	"strings"

	"golang.org/x/net/html"
	gmailapi "google.golang.org/api/gmail/v1"
)

// DecodeBody walks a message payload depth-first and returns the first
// non-empty text it finds. text/plain parts are returned as-is, text/html
// parts are stripped down to their visible text.
func DecodeBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}

	var data string
	if payload.Body != nil && payload.Body.Data != "" {
		data = payload.Body.Data
	}

	switch {
	case payload.MimeType == "text/plain" && data != "":
		text, err := decodeBase64URL(data)
		if err == nil {
			return text
		}
	case payload.MimeType == "text/html" && data != "":
		raw, err := decodeBase64URL(data)
		if err == nil {
			return htmlToText(raw)
		}
	}

	for _, part := range payload.Parts {
		if text := DecodeBody(part); text != "" {
			return text
		}
	}

	return ""
}

// decodeBase64URL decodes message body data. Gmail emits unpadded base64url,
// but padded and standard encodings show up in the wild.
func decodeBase64URL(s string) (string, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return string(data), nil
	}
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return string(data), nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// htmlToText extracts the visible text of an HTML document, joining text
// nodes with newlines. script and style contents are skipped.
func htmlToText(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.Join(lines, "\n")
}
