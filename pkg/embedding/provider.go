package embedding

// Task types passed through to providers that distinguish indexing from
// querying. Ollama models ignore them; Gemini uses them for asymmetric
// embeddings.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider turns text into a vector. Memory indexing and spark
// retrieval must use the same provider instance so activations stay
// comparable.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
