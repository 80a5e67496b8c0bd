package bot

import "strings"

// Command is a parsed mention: the first word after the bot handle, lowercased,
// followed by the remaining words.
type Command struct {
	Type   string
	Params []string
	Raw    string
}

// ParseCommand strips the first "@<botHandle>" from text and splits the rest
// on whitespace. It reports false when nothing is left.
func ParseCommand(text, botHandle string) (*Command, bool) {
	cleaned := strings.TrimSpace(strings.Replace(text, "@"+botHandle, "", 1))
	parts := strings.Fields(cleaned)
	if len(parts) == 0 {
		return nil, false
	}

	return &Command{
		Type:   strings.ToLower(parts[0]),
		Params: parts[1:],
		Raw:    cleaned,
	}, true
}

// Param returns the i-th parameter or "" when absent.
func (c Command) Param(i int) string {
	if i < 0 || i >= len(c.Params) {
		return ""
	}
	return c.Params[i]
}
