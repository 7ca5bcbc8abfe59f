package docstore

import "strings"

// ParseFolders splits a comma-separated folder list such as the DOCS_FOLDERS
// environment value. Entries are trimmed and empty ones dropped; blank input
// yields nil, meaning no folder filter.
func ParseFolders(csv string) []string {
	var out []string
	for _, f := range strings.Split(csv, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// isFolderName reports whether f names a single top-level folder.
func isFolderName(f string) bool {
	return f != "." && f != ".." && !strings.ContainsAny(f, `/\`)
}
