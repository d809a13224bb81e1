package kb

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Chunk is one knowledge base passage with its retrieval metadata.
type Chunk struct {
	Text        string `json:"text"`
	Parameter   string `json:"parameter"`
	Language    string `json:"language"`
	SectionType string `json:"section_type"`
}

// Corpus holds the loaded knowledge base in memory. It is immutable after
// load, so concurrent retrieval needs no locking.
type Corpus struct {
	chunks []Chunk
	logger *log.Logger
}

// LoadCorpus reads the chunk file at path. A missing or unreadable file
// returns an empty, not-ready corpus rather than an error so the service
// can start without guidance content.
func LoadCorpus(path string, logger *log.Logger) *Corpus {
	if logger == nil {
		logger = log.Default()
	}
	c := &Corpus{logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("[WARN] knowledge base not loaded from %s: %v (helper guidance disabled)", path, err)
		return c
	}

	var chunks []Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		logger.Printf("[WARN] knowledge base at %s is malformed: %v (helper guidance disabled)", path, err)
		return c
	}

	c.chunks = chunks
	logger.Printf("[INFO] loaded knowledge base with %d chunks from %s", len(chunks), path)
	return c
}

// NewCorpus builds a corpus directly from chunks. Used by tests and tooling.
func NewCorpus(chunks []Chunk, logger *log.Logger) *Corpus {
	if logger == nil {
		logger = log.Default()
	}
	return &Corpus{chunks: chunks, logger: logger}
}

// IsReady reports whether any chunks are loaded.
func (c *Corpus) IsReady() bool {
	return len(c.chunks) > 0
}

// Len reports the chunk count.
func (c *Corpus) Len() int {
	return len(c.chunks)
}

func (c *Corpus) String() string {
	return fmt.Sprintf("kb.Corpus(%d chunks)", len(c.chunks))
}
