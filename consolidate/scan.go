package consolidate

import (
	"fmt"
	"strings"
)

// argfile is the rewritten content of one argument file.
type argfile struct {
	// path is where the rewritten content is written.
	path  string
	lines []string
}

// scanResult is the outcome of walking the argument tree.
type scanResult struct {
	// args are the top-level arguments without search path declarations.
	args []string
	// argfiles are the rewritten argument files, in discovery order.
	argfiles []*argfile
	// dependencyPaths are the extracted search path directories, in order.
	dependencyPaths []string
}

// queuedArg is one argument waiting to be scanned, with the argument file
// it came from ("" for the command line).
type queuedArg struct {
	arg    string
	parent string
}

// scanArgs walks args and every argument file they reference, breadth first.
//
// Search path declarations are moved into dependencyPaths. Every other token
// stays in the list it came from. Each argument file reference @f is
// rewritten to @f.filtered, and f's remaining tokens are collected for that
// file. An argument file referenced more than once is read once.
func scanArgs(args []string, readLines func(string) ([]string, error)) (*scanResult, error) {
	res := &scanResult{}
	byParent := make(map[string]*argfile)

	target := func(parent string) *[]string {
		if parent == "" {
			return &res.args
		}
		return &byParent[parent].lines
	}

	queue := make([]queuedArg, 0, len(args))
	for _, arg := range args {
		queue = append(queue, queuedArg{arg: arg})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		out := target(item.parent)

		if item.arg == searchPathFlag {
			// The path token must come from the same list as the flag.
			if len(queue) > 0 && queue[0].parent == item.parent {
				if path, ok := strings.CutPrefix(queue[0].arg, dependencyKind); ok {
					res.dependencyPaths = append(res.dependencyPaths, path)
					queue = queue[1:]
					continue
				}
			}
			*out = append(*out, item.arg)
			continue
		}

		if path, ok := strings.CutPrefix(item.arg, dependencyFlag); ok {
			res.dependencyPaths = append(res.dependencyPaths, path)
			continue
		}

		if path, ok := strings.CutPrefix(item.arg, argfilePrefix); ok {
			*out = append(*out, argfilePrefix+path+filteredSuffix)
			if _, seen := byParent[path]; seen {
				continue
			}

			lines, err := readLines(path)
			if err != nil {
				return nil, fmt.Errorf("unable to read argfile %s: %w", path, err)
			}
			af := &argfile{path: path + filteredSuffix}
			byParent[path] = af
			res.argfiles = append(res.argfiles, af)
			for _, line := range lines {
				queue = append(queue, queuedArg{arg: line, parent: path})
			}
			continue
		}

		*out = append(*out, item.arg)
	}

	return res, nil
}
