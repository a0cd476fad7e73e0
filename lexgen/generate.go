// Package lexgen wires together the spec parser, AST metadata, followpos,
// alphabet resolution, DFA construction, DFA serialization, and driver
// emission into the single pure entry point the CLI (or any other
// collaborator) calls.
package lexgen

import (
	"encoding/json"
	"fmt"

	"github.com/nihei9/declex/alphabet"
	"github.com/nihei9/declex/ast"
	"github.com/nihei9/declex/dfa"
	"github.com/nihei9/declex/drivergen"
	"github.com/nihei9/declex/specparser"
)

// Result is the core's only output type, mirroring spec.md §6's
// Result<{dfa_json, driver_file_name, driver_contents}, error_message>.
type Result struct {
	DFAJSON        []byte
	DriverFileName string
	DriverContents string
}

// Generate runs the whole pipeline over inputText. inputPath is used only
// to annotate diagnostics (it is never opened by this package — file I/O
// is the CLI's job). driverLanguage is "python" or "javascript".
func Generate(inputText, inputPath, driverLanguage string) (*Result, error) {
	lang, err := drivergen.ParseLanguage(driverLanguage)
	if err != nil {
		return nil, err
	}

	p := specparser.NewParser(inputText, inputPath)
	parsed, err := p.Parse()
	if err != nil {
		return nil, err
	}

	root := parsed.Tree.Root()
	ast.ComputeMetadata(parsed.Tree, root)
	follow := ast.ComputeFollowpos(parsed.Tree, root)

	symbols, err := alphabet.Resolve(parsed.Tree, root, parsed.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	built := dfa.Build(parsed.Tree, root, follow, symbols)

	doc, err := dfa.Serialize(built, parsed.Accepting, parsed.TokenOrder, parsed.Classes)
	if err != nil {
		return nil, err
	}

	dfaJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DFA: %w", err)
	}

	driverSrc, err := drivergen.Emit(lang, parsed.TokenOrder)
	if err != nil {
		return nil, err
	}

	return &Result{
		DFAJSON:        dfaJSON,
		DriverFileName: lang.FileName(),
		DriverContents: driverSrc,
	}, nil
}
