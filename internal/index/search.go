package index

import (
	"sort"

	"github.com/harrison/mii/internal/models"
	"github.com/harrison/mii/internal/similarity"
)

// SearchExact returns every (command, module) pair whose command equals cmd
// byte-for-byte, in discovery order.
func (ix *Index) SearchExact(cmd string) ([]models.Match, error) {
	if !ix.ready {
		return nil, ErrNotReady
	}

	matches := []models.Match{}
	for _, m := range ix.modules {
		if !m.Analyzed {
			continue
		}
		for _, c := range m.Commands {
			if c == cmd {
				matches = append(matches, models.Match{
					Command:    c,
					ModuleCode: m.Code,
					ModulePath: m.Path,
				})
			}
		}
	}
	return matches, nil
}

// SearchFuzzy returns every (command, module) pair whose command is within
// similarity.Threshold of cmd, ignoring case. Results are ordered by distance,
// then by discovery order.
func (ix *Index) SearchFuzzy(cmd string) ([]models.Match, error) {
	if !ix.ready {
		return nil, ErrNotReady
	}

	matches := []models.Match{}
	for _, m := range ix.modules {
		if !m.Analyzed {
			continue
		}
		for _, c := range m.Commands {
			d := similarity.Distance(cmd, c)
			if d > similarity.Threshold {
				continue
			}
			matches = append(matches, models.Match{
				Command:    c,
				ModuleCode: m.Code,
				ModulePath: m.Path,
				Distance:   d,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

// SearchInfo returns the modules whose code is exactly code. The same code can be
// provided by several module-path roots, so there may be more than one.
func (ix *Index) SearchInfo(code string) ([]models.ModuleInfo, error) {
	if !ix.ready {
		return nil, ErrNotReady
	}

	infos := []models.ModuleInfo{}
	for _, m := range ix.modules {
		if m.Code == code {
			infos = append(infos, m.Info())
		}
	}
	return infos, nil
}
