package snapshot

import "time"

// folderLayout is the timestamp layout snapshot folders are named with,
// e.g. "2025-01-15_14-30-00".
const folderLayout = "2006-01-02_15-04-05"

// FolderName returns the snapshot folder name for the given creation time.
func FolderName(t time.Time) string {
	return t.Format(folderLayout)
}

// ParseFolderName parses a snapshot folder name back into its creation
// time, in the local time zone the name was generated in.
func ParseFolderName(name string) (time.Time, error) {
	return time.ParseInLocation(folderLayout, name, time.Local)
}
