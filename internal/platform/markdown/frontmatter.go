package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Section is one "## Heading" block of a rendered document.
type Section struct {
	Heading string
	Body    string
}

// RenderFrontmatter writes meta as a YAML header followed by body.
func RenderFrontmatter(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// RenderSections renders a level-one title followed by level-two sections.
// Sections with an empty body are skipped.
func RenderSections(title, lead string, sections []Section) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n")
	if lead = strings.TrimSpace(lead); lead != "" {
		sb.WriteString("\n" + lead + "\n")
	}
	for _, s := range sections {
		body := strings.TrimSpace(s.Body)
		if body == "" {
			continue
		}
		sb.WriteString("\n## " + s.Heading + "\n\n" + body + "\n")
	}
	return sb.String()
}
