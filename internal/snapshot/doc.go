// Package snapshot implements the on-disk backup snapshot layout and its
// catalog.
//
// Each snapshot is one timestamped folder under the snapshot root:
//
//	<root>/
//	└── {YYYY-MM-DD_HH-mm-ss}/
//	    ├── manifest.json
//	    ├── contacts.json
//	    ├── messages.json
//	    └── callLogs.json
//
// The manifest is the only durable pointer to a snapshot's contents: the
// catalog lists snapshots by reading manifests, never by re-reading raw
// payload files. All three payload files exist in every snapshot; the two
// domains a snapshot doesn't carry hold empty arrays.
//
// A manifest is created once, at snapshot-write completion, and is
// immutable until the snapshot is deleted. Folders whose manifest is
// missing or corrupt are silently excluded from listings.
package snapshot
