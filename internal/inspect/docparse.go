package inspect

import (
	"regexp"
	"strings"
)

// Doc is the parsed form of a function doc comment.
type Doc struct {
	Description string
	Params      map[string]string
}

var argLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)

var sectionHeaders = map[string]struct{}{
	"Args:":    {},
	"Returns:": {},
	"Raises:":  {},
}

// ParseDoc splits a doc comment into a short description and a map of
// per-parameter descriptions taken from its Args: section. Parameters not
// mentioned in the comment resolve to empty descriptions.
func ParseDoc(text string) Doc {
	doc := Doc{Params: map[string]string{}}
	lines := strings.Split(text, "\n")

	// Short description: the first paragraph, up to a blank line or a
	// section header.
	var desc []string
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			break
		}
		if _, header := sectionHeaders[line]; header {
			break
		}
		desc = append(desc, line)
	}
	doc.Description = strings.Join(desc, " ")

	// Args: section, entries as "name: description" with indented
	// continuation lines.
	inArgs := false
	current := ""
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if _, header := sectionHeaders[trimmed]; header {
			inArgs = trimmed == "Args:"
			current = ""
			continue
		}
		if !inArgs || trimmed == "" {
			continue
		}
		if m := argLine.FindStringSubmatch(trimmed); m != nil {
			current = m[1]
			doc.Params[current] = m[2]
			continue
		}
		if current != "" {
			doc.Params[current] = strings.TrimSpace(doc.Params[current] + " " + trimmed)
		}
	}
	return doc
}
