package index

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/mii/internal/fileutil"
	"github.com/harrison/mii/internal/models"
)

// tclMagic starts every Tcl modulefile.
var tclMagic = []byte("#%Module")

// Build discards the current contents and crawls every root of the colon-separated
// modulepath. Roots that cannot be read are skipped with a warning, so an empty index
// is a valid outcome. Build fails only if a relative root cannot be resolved.
func (ix *Index) Build(modulepath string) error {
	roots := fileutil.SplitPathList(modulepath)

	resolved := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve module path %s: %w", root, err)
		}
		resolved = append(resolved, abs)
	}

	ix.reset()
	ix.modulePath = roots
	ix.ready = true

	if len(resolved) == 0 {
		ix.logger.LogWarn("Module path is empty, nothing to index")
	}

	for _, root := range resolved {
		if err := ix.AddPath(root, NoParent); err != nil {
			ix.logger.LogWarn(fmt.Sprintf("Skipping module path %s: %v", root, err))
		}
	}

	ix.logger.LogDebug(fmt.Sprintf("Crawled %d modules, %d pending analysis", len(ix.modules), ix.pending))
	return nil
}

// AddPath crawls dir for modulefiles and adds a pending module for every one whose
// path is not in the index yet. parent is the position of the module whose analysis
// revealed dir, or NoParent for module-path roots. A directory is crawled at most
// once per build. Problems below dir are logged; only an unreadable dir is returned
// as an error.
func (ix *Index) AddPath(dir string, parent int) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}

	if ix.crawled[abs] {
		ix.logger.LogDebug(fmt.Sprintf("Module path %s already crawled", abs))
		return nil
	}
	ix.crawled[abs] = true

	result, err := fileutil.ScanDirectory(abs, fileutil.ScanOptions{
		Recursive:       true,
		SkipHiddenFiles: true,
	})
	if err != nil {
		return err
	}

	for _, scanErr := range result.Errors {
		ix.logger.LogWarn(fmt.Sprintf("Skipping part of %s: %v", abs, scanErr))
	}

	added := 0
	for _, path := range result.Files {
		if _, exists := ix.byPath[path]; exists {
			continue
		}

		dialect, ok, err := detectDialect(path)
		if err != nil {
			ix.logger.LogWarn(fmt.Sprintf("Couldn't inspect %s : %v", path, err))
			continue
		}
		if !ok {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			ix.logger.LogWarn(fmt.Sprintf("Couldn't stat %s : %v", path, err))
			continue
		}

		ix.add(&Module{
			Path:    path,
			Code:    moduleCode(abs, path),
			Dialect: dialect,
			ModTime: info.ModTime(),
			Parent:  parent,
		})
		added++
	}

	ix.logger.LogDebug(fmt.Sprintf("Added %d modules from %s", added, abs))
	return nil
}

// moduleCode derives the loadable name of a modulefile from its position under root.
func moduleCode(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".lua")
}

// detectDialect classifies a file: ".lua" files are Lmod modules, files starting
// with the #%Module magic are Tcl modules, anything else is not a modulefile.
func detectDialect(path string) (models.Dialect, bool, error) {
	if strings.HasSuffix(path, ".lua") {
		return models.DialectLmod, true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	head, err := bufio.NewReader(f).Peek(len(tclMagic))
	if err != nil {
		// Shorter than the magic, so not a Tcl modulefile.
		return 0, false, nil
	}
	if bytes.Equal(head, tclMagic) {
		return models.DialectTcl, true, nil
	}
	return 0, false, nil
}
