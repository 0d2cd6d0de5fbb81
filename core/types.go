package core

// Tech identifies one of the supported project ecosystems. The set is
// closed: discovery, adapters and reporting all key off these values.
type Tech string

const (
	TechDotnet Tech = "dotnet"
	TechRust   Tech = "rust"
	TechNode   Tech = "node"
	TechGo     Tech = "go"
	TechSQL    Tech = "sql"
)

// Candidate is a single marker-file hit produced by the tree walk. It is
// ephemeral: classification either promotes it to a Project or drops it.
type Candidate struct {
	MarkerPath string
	Dir        string
	Tech       Tech
}

// Project is one logical project: a (technology, repository root) pair
// emitted exactly once per discovery run regardless of how many marker
// files exist under that root.
type Project struct {
	Tech       Tech
	RepoRoot   string
	MarkerPath string
	Dir        string
	Name       string
}

// TechSpec is the per-technology contract the discovery engine consumes.
// Coverage providers implement it alongside their measurement logic.
type TechSpec interface {
	Technology() Tech

	// MarkerGlob is a doublestar pattern, relative to the workspace root,
	// matching this technology's project manifests.
	MarkerGlob() string

	// Accept applies discovery-time textual gates on a marker file, such
	// as workspace-membership or test-script checks. Returning false drops
	// the candidate before deduplication.
	Accept(markerPath string) bool
}
