package model

// Classify picks the renderer for a message. The order of the checks is
// significant: a grids message with an empty group falls through to
// markdown text, and user turns are always plain text.
func Classify(m Message) RenderKind {
	switch {
	case m.Sender == SenderUser:
		return RenderPlainText
	case m.Loading:
		return RenderWaiting
	case m.Identifier == IdentifierGrid:
		return RenderTable
	case m.Identifier == IdentifierGrids && len(m.Group) > 0:
		return RenderTableGroup
	case m.Identifier == IdentifierButtons:
		return RenderActionTagList
	case m.Identifier == IdentifierChart:
		return RenderChart
	default:
		return RenderMarkdownText
	}
}
