// Package extract turns uploaded reference files into plain text that can
// be appended to a profile's existing content scripts.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"golang.org/x/net/html"
)

// maxUploadSize caps reference uploads.
const maxUploadSize int64 = 10 << 20 // 10 MB

var allowedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".html": true,
}

// ErrUnsupportedType is returned for file extensions outside the allowlist.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrEmptyContent is returned when a file yields no usable text.
var ErrEmptyContent = errors.New("file content is empty")

// Result is the extracted text plus the filename it came from.
type Result struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// FromFile extracts plain text from an uploaded file. HTML goes through
// the readability pipeline; everything else is normalized as-is.
func FromFile(filename string, data []byte) (*Result, error) {
	name := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w %q; allowed: .txt, .md, .csv, .json, .html", ErrUnsupportedType, ext)
	}

	var content string
	if ext == ".html" {
		content = fromHTML(data)
	} else {
		content = normalizeContent(string(data))
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Result{FileName: name, Content: content}, nil
}

// fromHTML runs the readability extractor and falls back to a plain DOM
// text walk when it yields nothing.
func fromHTML(data []byte) string {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err == nil && article.Node != nil {
		var buf bytes.Buffer
		_ = article.RenderText(&buf)
		if text := normalizeContent(buf.String()); text != "" {
			return text
		}
	}

	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return extractReadableText(node)
}

func extractReadableText(node *html.Node) string {
	var builder strings.Builder

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript", "nav", "footer", "header", "aside", "form", "template":
				return
			case "p", "div", "section", "article", "li", "pre", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				builder.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walker(child)
		}
	}
	walker(node)

	return normalizeContent(builder.String())
}

func normalizeContent(content string) string {
	lines := strings.Split(content, "\n")
	var cleaned []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				cleaned = append(cleaned, "")
				blank = true
			}
			continue
		}
		blank = false
		cleaned = append(cleaned, trimmed)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
