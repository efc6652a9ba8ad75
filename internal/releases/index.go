package releases

import "regexp"

// The index is an HTML page; each release is an anchor like
// <a href="/terraform/1.5.7/">terraform_1.5.7</a>. Pre-releases
// (1.6.0-beta1) intentionally do not match.
var indexPattern = regexp.MustCompile(`<a href="/terraform/([0-9]+\.[0-9]+\.[0-9]+)/"`)

// ParseIndex extracts unique versions from the release index HTML.
func ParseIndex(html string) []string {
	matches := indexPattern.FindAllStringSubmatch(html, -1)
	seen := make(map[string]struct{}, len(matches))
	versions := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		versions = append(versions, m[1])
	}
	return versions
}
