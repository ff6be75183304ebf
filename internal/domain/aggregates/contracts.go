package aggregates

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByRepository means the repository serializes writes per aggregate id
	// and commits whole snapshots.
	WriteTxOwnedByRepository WriteTxOwnership = "repository_owned"
)

// ReadPolicy defines how aggregate contracts should expose reads.
type ReadPolicy string

const (
	// ReadPolicySnapshot serves reads from the last committed snapshot without locking.
	ReadPolicySnapshot ReadPolicy = "committed_snapshot_reads"
	// ReadPolicyIndexQueries keeps attribute lookups on secondary index repos.
	ReadPolicyIndexQueries ReadPolicy = "index_queries"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}

// RequiresRepositoryOwnedTx returns true when writes must go through the repository's update path.
func (c Contract) RequiresRepositoryOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByRepository
}

// ProjectContract is the write boundary for a project and everything it owns.
var ProjectContract = Contract{
	Name:             "project",
	WriteTxOwnership: WriteTxOwnedByRepository,
	ReadPolicy:       ReadPolicySnapshot,
	Notes:            "members, milestones, tickets and bug reports change only through a new project snapshot",
}

// UserContract covers registered users; users are immutable after registration.
var UserContract = Contract{
	Name:             "user",
	WriteTxOwnership: WriteTxOwnedByRepository,
	ReadPolicy:       ReadPolicySnapshot,
}
