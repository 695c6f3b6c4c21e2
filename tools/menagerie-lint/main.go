// menagerie-lint is a custom static analyzer for menagerie's locking and
// enumeration patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/menagerie/tools/menagerie-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
