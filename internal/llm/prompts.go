package llm

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// PromptTemplates holds the two instruction templates parsed from docs/prompts.md.
type PromptTemplates struct {
	LegalAnswer      string
	SimplifiedAnswer string
}

// LoadPrompts parses the prompts file and extracts the named templates.
// Expected format: "## template_name" followed by a fenced code block.
func LoadPrompts(path string) (*PromptTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	pt, err := ParsePrompts(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pt, nil
}

// ParsePrompts extracts the templates from markdown content.
func ParsePrompts(content string) (*PromptTemplates, error) {
	sections := parsePromptSections(content)

	get := func(name string, required ...string) (string, error) {
		v, ok := sections[name]
		if !ok || v == "" {
			return "", fmt.Errorf("prompt section %q not found", name)
		}
		for _, placeholder := range required {
			if !strings.Contains(v, "{{"+placeholder+"}}") {
				return "", fmt.Errorf("prompt section %q is missing {{%s}}", name, placeholder)
			}
		}
		return v, nil
	}

	var err error
	pt := &PromptTemplates{}
	if pt.LegalAnswer, err = get("legal_answer", "query", "context"); err != nil {
		return nil, err
	}
	if pt.SimplifiedAnswer, err = get("simplified_answer", "query", "formal_answer"); err != nil {
		return nil, err
	}
	return pt, nil
}

var sectionHeaderRe = regexp.MustCompile(`(?m)^## (.+)$`)

// parsePromptSections maps each "## name" heading to the first fenced block
// beneath it.
func parsePromptSections(content string) map[string]string {
	sections := make(map[string]string)

	matches := sectionHeaderRe.FindAllStringSubmatchIndex(content, -1)
	for i, match := range matches {
		name := strings.TrimSpace(content[match[2]:match[3]])

		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[name] = extractCodeBlock(content[match[1]:end])
	}

	return sections
}

func extractCodeBlock(text string) string {
	var result []string
	inBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				break
			}
			inBlock = true
			continue
		}
		if inBlock {
			result = append(result, line)
		}
	}
	return strings.TrimSpace(strings.Join(result, "\n"))
}

// RenderTemplate replaces {{key}} placeholders in one pass, so substituted
// values are never expanded again.
func RenderTemplate(tmpl string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
