package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nihei9/declex/lexgen"
	"github.com/spf13/cobra"
)

var generateFlags = struct {
	inputFile      *string
	driverLanguage *string
	outputDir      *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate states.json and a driver file from a grammar",
		Example: `  declex generate --input-file grammar.declex --driver-language python --output-directory out`,
		Args:    cobra.NoArgs,
		RunE:    runGenerate,
	}
	generateFlags.inputFile = cmd.Flags().String("input-file", "", "input grammar file path (required)")
	generateFlags.driverLanguage = cmd.Flags().String("driver-language", "python", "driver target language: python or javascript")
	generateFlags.outputDir = cmd.Flags().String("output-directory", "", "output directory (required)")
	cmd.MarkFlagRequired("input-file")
	cmd.MarkFlagRequired("output-directory")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath := *generateFlags.inputFile
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open the input file %s: %w", inputPath, err)
	}

	result, err := lexgen.Generate(string(src), inputPath, *generateFlags.driverLanguage)
	if err != nil {
		return err
	}

	outDir := *generateFlags.outputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("cannot create the output directory %s: %w", outDir, err)
	}

	if err := writeFile(filepath.Join(outDir, "states.json"), result.DFAJSON); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, result.DriverFileName), []byte(result.DriverContents)); err != nil {
		return err
	}

	return nil
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot create the output file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
