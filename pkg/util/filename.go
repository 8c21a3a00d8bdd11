package util

import (
	"fmt"
	"strings"
)

// SplitFileName splits an original file name at the last dot. A name
// without a dot yields an empty extension.
func SplitFileName(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// RelativePath builds the object-store key for a file inside its
// workspace folder. A file without an extension produces a key ending
// in a trailing dot. That looks off but existing buckets rely on it,
// so it stays.
func RelativePath(workspace, base, ext string) string {
	return fmt.Sprintf("%s/%s.%s", workspace, base, ext)
}
