package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/tidwall/gjson"

	"sichat/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s\x1b]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// markdownSource returns the text a MarkdownText message shows. Markdown
// messages carry their source in Data; everything else shows Text.
func markdownSource(msg model.Message) string {
	if msg.Identifier != model.IdentifierMarkdown {
		return msg.Text
	}
	if len(msg.Data) == 0 {
		return ""
	}
	data := gjson.ParseBytes(msg.Data)
	if data.Type == gjson.String {
		return data.Str
	}
	return data.Raw
}

// renderMarkdown renders markdown for the terminal at the given width
func renderMarkdown(source string, width int) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	// Link syntax [text](url) is shown as the plain url so terminals can
	// open it
	source = mdLinkRegex.ReplaceAllString(source, "$1 $2")

	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(source))
	rendered := string(gomarkdown.Render(doc, r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = colorURLs(rendered)
	return strings.TrimRight(rendered, "\n ")
}

// colorURLs colors plain URLs outside code blocks
func colorURLs(s string) string {
	const red, reset = "\x1b[31m", "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines carry the ┃ gutter
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, red+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

// stripANSI removes ANSI escape codes for accurate length calculation
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
