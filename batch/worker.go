package batch

import (
	"github.com/osc2cr/converter/config"
)

// WorkerRequest is what Driver sends to one "-batch-worker" subprocess
// (§5's "each task runs in a fresh subprocess"), per-task path plus the
// batch-wide configuration. ResultPath is pre-reserved by the parent's
// ResultStore counter so two concurrent workers never collide on a
// filename, even though the counter itself lives only in the parent
// process.
type WorkerRequest struct {
	XoscPath   string
	ResultPath string

	Converter config.ConverterParams
	Esmini    config.EsminiParams
	Goal      config.GoalParams
}

// WorkerResponse is the worker's reply: enough to populate a BatchEntry
// without the parent ever seeing the (potentially large) scenario value,
// which the worker has already written to ResultPath itself.
type WorkerResponse struct {
	Status Status
	Reason string
	Error  string
}
