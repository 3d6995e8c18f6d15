// Package templates embeds the default stubs shipped with the binary.
package templates

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// Extension is the file extension of stub files.
const Extension = ".stub"

//go:embed stubs/*.stub
var stubFS embed.FS

// GetStub returns the content of the embedded stub with the given identifier.
func GetStub(id string) (string, error) {
	content, err := stubFS.ReadFile("stubs/" + id + Extension)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// HasStub reports whether an embedded stub exists for id.
func HasStub(id string) bool {
	_, err := fs.Stat(stubFS, "stubs/"+id+Extension)
	return err == nil
}

// StubIDs returns the identifiers of every embedded stub, sorted.
func StubIDs() ([]string, error) {
	entries, err := fs.ReadDir(stubFS, "stubs")
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(ids)
	return ids, nil
}
