package payload

import "sync"

var (
	defaultOnce sync.Once
	fallback    *Parser
)

// DefaultParser returns the shared parser backed by the embedded contract.
func DefaultParser() *Parser {
	defaultOnce.Do(func() {
		fallback = NewParser(nil)
	})
	return fallback
}
