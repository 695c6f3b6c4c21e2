// Package analyzers provides all custom static analyzers for menagerie.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/menagerie/tools/menagerie-lint/analyzers/lockscope"
	"github.com/ersonp/menagerie/tools/menagerie-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		lockscope.Analyzer,
		loopcall.Analyzer,
	}
}
