package pipeline

import (
	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/recurring"
	"github.com/dkomarov/finsight/internal/statement"
)

// State is the shared working set of one analysis run. Each run owns its
// own State; nothing here is shared across concurrent runs.
type State struct {
	RunID     string
	Extension string
	Raw       []byte

	Table     statement.Table
	Recurring []recurring.Group
	Anomalies statement.Table
	Profile   *behavior.Profile
	Advice    []string
	Savings   float64

	Pages []string
}
