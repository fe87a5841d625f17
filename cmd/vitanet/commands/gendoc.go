package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/vitanet/vitanet/cmd"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runGenDoc(os.Stdout)
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "output format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDoc(w io.Writer) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.ErrMissingPath, "Pass --dir")
	}
	if err := paths.EnsureDir(genDocDir, 0o755); err != nil {
		return err
	}

	// keep generated files stable across runs
	rootCmd.DisableAutoGenTag = true

	switch genDocFormat {
	case "markdown":
		if err := doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler); err != nil {
			return errors.Wrap(err, "generating markdown")
		}
	case "man":
		header := &doc.GenManHeader{
			Title:   "VITANET",
			Section: "1",
			Source:  "vitanet " + cmd.Version,
		}
		if err := doc.GenManTree(rootCmd, header, genDocDir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", genDocFormat), "Use --format markdown or --format man")
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", genDocDir)
	return nil
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// vitanet_bundle_create.md -> vitanet bundle create
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
---
`, title, title)
}

func linkHandler(name string) string {
	return strings.ToLower(name)
}
