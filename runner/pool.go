package runner

import "sync"

// Pool capacities, matching the scale of a typical stage's save set.
const stageResultSavesCap = 8

var stageResultPool = sync.Pool{
	New: func() any {
		return &StageResult{
			Saves: make(map[string]any, stageResultSavesCap),
		}
	},
}

// getStageResult retrieves a StageResult from the pool and resets it.
func getStageResult() *StageResult {
	r := stageResultPool.Get().(*StageResult)
	r.reset()
	return r
}

// putStageResult returns a StageResult to the pool. Callers must not
// retain r or anything reachable from it after calling putStageResult.
func putStageResult(r *StageResult) {
	if r == nil {
		return
	}
	stageResultPool.Put(r)
}

func (r *StageResult) reset() {
	r.Stage = ""
	r.IterationKey = ""
	r.Status = StatusPending
	r.Err = nil
	for k := range r.Saves {
		delete(r.Saves, k)
	}
}
