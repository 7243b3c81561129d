package skills

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the metadata block at the top of SKILL.md.
type Frontmatter struct {
	Name        *string
	Description *string
}

// splitFrontmatter returns the lines between a leading "---" and the next
// "---", and the body after it. ok is false when there is no block.
func splitFrontmatter(markdown string) (block []string, body string, ok bool) {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, markdown, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return lines[1:i], strings.Join(lines[i+1:], "\n"), true
		}
	}
	return lines[1:], "", true
}

// ParseFrontmatter reads name and description. The block is decoded as YAML;
// when that fails each "key: value" line is read on its own.
func ParseFrontmatter(markdown string) Frontmatter {
	block, _, ok := splitFrontmatter(markdown)
	if !ok {
		return Frontmatter{}
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &doc); err == nil && doc != nil {
		return Frontmatter{Name: stringField(doc["name"]), Description: stringField(doc["description"])}
	}
	return parseLines(block)
}

func stringField(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseLines(block []string) Frontmatter {
	var fm Frontmatter
	for _, line := range block {
		key, raw, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value := strings.TrimSpace(raw)
		value = strings.TrimPrefix(strings.TrimPrefix(value, `"`), `'`)
		value = strings.TrimSuffix(strings.TrimSuffix(value, `"`), `'`)
		switch strings.TrimSpace(key) {
		case "name":
			fm.Name = stringField(value)
		case "description":
			fm.Description = stringField(value)
		}
	}
	return fm
}

// StripFrontmatter returns markdown without its metadata block.
func StripFrontmatter(markdown string) string {
	_, body, ok := splitFrontmatter(markdown)
	if !ok {
		return markdown
	}
	return strings.TrimLeft(body, "\n")
}
