package spurs

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// slugRegex matches characters that should be replaced with hyphens
	slugRegex = regexp.MustCompile(`[^a-z0-9]+`)
	// multiHyphenRegex matches multiple consecutive hyphens
	multiHyphenRegex = regexp.MustCompile(`-+`)
)

// maxSlugLen bounds export file names.
const maxSlugLen = 50

// Slugify converts a workflow name into a file-name-friendly slug.
//
// Examples:
//
//	"Customer Support Bot" -> "customer-support-bot"
//	"New Workflow 1/2/2026, 3:04:05 PM" -> "new-workflow-1-2-2026-3-04-05-pm"
func Slugify(name string) string {
	if name == "" {
		return ""
	}

	// Fold unicode case before the ascii filter.
	result := cases.Lower(language.English).String(strings.TrimSpace(name))
	result = slugRegex.ReplaceAllString(result, "-")
	result = multiHyphenRegex.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxSlugLen {
		cutoff := maxSlugLen
		if idx := strings.LastIndex(result[:cutoff], "-"); idx > 0 {
			cutoff = idx
		}
		result = result[:cutoff]
	}

	return result
}

// FileName returns the default export file name for w with the given extension.
func FileName(w Workflow, ext string) string {
	slug := Slugify(w.Name)
	if slug == "" {
		slug = Slugify(w.ID)
	}
	if slug == "" {
		slug = "spur"
	}
	return slug + "." + strings.TrimPrefix(ext, ".")
}
