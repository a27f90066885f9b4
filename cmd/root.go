// Package cmd wires the jaqoi command line interface.
package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/machonerd15/jaqoi/pkg/qoi"
)

var rootCmd = &cobra.Command{
	Use:                   "jaqoi <input> <output>",
	Short:                 "Convert images to and from the QOI format",
	Long:                  "jaqoi converts between QOI and PNG images. The format of each side is derived from the file extension.",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	SilenceErrors:         true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convert(args[0], args[1])
	},
}

// Execute runs the root command. Failures produce a single diagnostic
// line on standard output and a non-zero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func convert(inputPath, outputPath string) error {
	img, err := load(inputPath)
	if err != nil {
		return err
	}
	return save(outputPath, img)
}

func load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch ext := formatExt(path); ext {
	case ".qoi":
		return qoi.DecodeImage(file)
	case ".png":
		return png.Decode(file)
	default:
		return nil, fmt.Errorf("unsupported input format %q", ext)
	}
}

func save(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch ext := formatExt(path); ext {
	case ".qoi":
		return qoi.EncodeImage(file, img)
	case ".png":
		return png.Encode(file, img)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

func formatExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
