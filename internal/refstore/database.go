package refstore

const (
	EmbeddingFileName = "actor.npy"
	MetadataFileName  = "actor.jsonl"
)

// Store is the immutable reference corpus: index-aligned identity ids and
// embeddings, plus the metadata table the ids index into. Implementations
// are read-only after construction and safe for concurrent use.
type Store interface {
	IdentityAt(row int) int64
	EmbeddingAt(row int) []float32
	MetadataFor(identityId int64) (IdentityRecord, error)
	Count() int
	Dim() int
}
