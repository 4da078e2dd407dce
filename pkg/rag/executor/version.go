package executor

import (
	"context"

	"hcp-chatbot-be/pkg/rag/state"
)

// Version has three exclusive branches: comparison when a range is set,
// single version when only a number is set, otherwise the latest entries.
func (e *Executor) Version(ctx context.Context, s state.AgentState) state.AgentState {
	return e.run("version", s, func() (state.Result, error) {
		if e.versions == nil {
			return state.Result{}, state.Errorf(state.ErrStrategyExecution, "version store unavailable")
		}

		vctx, cancel := withTimeout(ctx, e.timeouts.SQL)
		defer cancel()

		d := s.Decision
		switch {
		case d.VersionRange != nil:
			from, to := d.VersionRange.From, d.VersionRange.To
			rows, err := e.versions.Compare(vctx, from, to)
			if err != nil {
				return state.Result{}, state.Errorf(state.ErrStrategyExecution, "compare versions: %v", err)
			}
			if len(rows) == 0 {
				return state.Result{}, comparisonNotFound(from, to)
			}
			return state.ComparisonResult(rows), nil

		case d.HasVersion():
			rows, err := e.versions.FindByNumber(vctx, d.VersionNumber, versionDetailLimit)
			if err != nil {
				return state.Result{}, state.Errorf(state.ErrStrategyExecution, "fetch version: %v", err)
			}
			if len(rows) == 0 {
				return state.Result{}, versionNotFound(d.VersionNumber)
			}
			return state.VersionResult(rows), nil

		default:
			rows, err := e.versions.Latest(vctx, latestVersionLimit)
			if err != nil {
				return state.Result{}, state.Errorf(state.ErrStrategyExecution, "fetch latest versions: %v", err)
			}
			return state.VersionResult(rows), nil
		}
	})
}

func versionNotFound(n int) error {
	return state.Errorf(state.ErrStrategyExecution, "version %d not found", n)
}

func comparisonNotFound(from, to int) error {
	return state.Errorf(state.ErrStrategyExecution, "could not compare versions %d and %d", from, to)
}
