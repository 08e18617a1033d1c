package index

import (
	"fmt"
)

// Analyze runs the analyzer over every pending module until none are left and
// returns how many modules it analyzed. Module-path directories revealed by an
// analysis are crawled with the analyzed module as parent, and the modules found
// there are analyzed in the same call.
//
// A module whose analysis fails is logged and kept with no commands, so one bad
// modulefile never blocks the rest or gets retried on every sync.
func (ix *Index) Analyze() (int, error) {
	if ix.analyzer == nil {
		return 0, ErrNoAnalyzer
	}

	count := 0
	// Discovery appends to ix.modules, so the bound is re-read every iteration.
	for i := 0; i < len(ix.modules) && ix.pending > 0; i++ {
		m := ix.modules[i]
		if m.Analyzed {
			continue
		}

		ix.logger.LogTrace(fmt.Sprintf("Analyzing %s", m.Path))

		res, err := ix.analyzer.Analyze(m.Path, m.Dialect)
		count++
		if err != nil {
			ix.logger.LogWarn(fmt.Sprintf("Analysis failed, module will have no commands: %v", err))
			ix.complete(m, nil, nil)
		} else {
			ix.complete(m, res.Commands, res.ModulePaths)
			ix.discover(i, res.ModulePaths)
		}

		if ix.progress != nil {
			ix.progress(count, count+ix.pending)
		}
	}

	return count, nil
}

// discover crawls the module-path directories revealed by the module at position parent.
func (ix *Index) discover(parent int, dirs []string) {
	for _, dir := range dirs {
		if err := ix.AddPath(dir, parent); err != nil {
			ix.logger.LogWarn(fmt.Sprintf("Skipping module path %s revealed by %s: %v", dir, ix.modules[parent].Code, err))
		}
	}
}

// Preanalyze copies the results of unchanged modules from the snapshot at
// indexFile, so Analyze only has to look at new or modified modulefiles. A module is
// reused when the snapshot has an analyzed module with the same path and
// modification time.
//
// The directories a reused module revealed last time are crawled again, without
// analyzing the module, so that modules below them are part of the new index.
//
// If the snapshot cannot be imported the error is returned and the index is left
// as it was; every module then goes through a full analysis.
func (ix *Index) Preanalyze(indexFile string) error {
	prior := New(WithLogger(ix.logger))
	if err := prior.Import(indexFile); err != nil {
		return fmt.Errorf("preanalysis: %w", err)
	}

	reused := 0
	for i := 0; i < len(ix.modules); i++ {
		m := ix.modules[i]
		if m.Analyzed {
			continue
		}

		old, ok := prior.Lookup(m.Path)
		if !ok || !old.Analyzed || !old.ModTime.Equal(m.ModTime) {
			continue
		}

		ix.complete(m, cloneStrings(old.Commands), cloneStrings(old.ModulePaths))
		ix.discover(i, m.ModulePaths)
		reused++
	}

	ix.logger.LogDebug(fmt.Sprintf("Reused %d up-to-date modules from %s, %d left to analyze", reused, indexFile, ix.pending))
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
