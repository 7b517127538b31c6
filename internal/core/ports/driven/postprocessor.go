package driven

// TextSplitter splits manual text into the windows that are embedded and retrieved.
// Implementations must be deterministic: the same input always yields the same output.
type TextSplitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split returns the ordered, non-empty chunks of text.
	Split(text string) []string
}
