package ir

// Version constants for snapshots and the tool.
const (
	// SnapshotVersion is the golden snapshot schema version.
	SnapshotVersion = "1"

	// ToolVersion is the dtimer release version.
	ToolVersion = "0.1.0"
)
