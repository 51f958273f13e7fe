package importer

import (
	"strings"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

// Result is the outcome of parsing one payload.
type Result struct {
	Transactions []model.Transaction
	Dropped      int // malformed rows skipped
}

func (r *Result) add(other Result) {
	r.Transactions = append(r.Transactions, other.Transactions...)
	r.Dropped += other.Dropped
}

// Parser converts a raw source payload into Transactions.
type Parser interface {
	Parse(data []byte) Result
	Source() model.Source
}

// Registry holds parsers keyed by source name.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate source.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(string(p.Source()))
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser source: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for source, or nil.
func (r *Registry) Get(source string) Parser {
	return r.parsers[strings.ToLower(source)]
}

// Sources returns registered source names in registration order.
func (r *Registry) Sources() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns a registry with the bank, mf and stock parsers.
func DefaultRegistry(c *categorize.Categorizer) *Registry {
	r := NewRegistry()
	r.Register(&BankParser{Categorizer: c})
	r.Register(&HoldingParser{Src: model.SourceMF})
	r.Register(&HoldingParser{Src: model.SourceStock})
	return r
}
