// Package docgen renders the markdown reference of a command tree.
package docgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const (
	DefaultDocsDir = "./docs"
	CommandsMdFile = "idctl_commands.md"
)

// Generate writes one page per command into dir plus an overview of the
// whole tree in CommandsMdFile.
func Generate(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return fmt.Errorf("generating command documentation: %w", err)
	}

	path := filepath.Join(dir, CommandsMdFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("generating commands overview: %w", err)
	}
	defer f.Close()
	if err := WriteOverview(f, root); err != nil {
		return fmt.Errorf("generating commands overview: %w", err)
	}
	log.Debugf("Wrote %s", path)
	return nil
}

// WriteOverview writes an indented list of the available commands followed
// by the usage and flags of each one.
func WriteOverview(w io.Writer, root *cobra.Command) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Commands\n\n", root.Name())
	b.WriteString("## Command Overview\n\n")
	for _, c := range root.Commands() {
		writeList(&b, c, 0)
	}

	b.WriteString("\n## Command Details\n\n")
	writeDetails(&b, root, "")

	_, err := io.WriteString(w, b.String())
	return err
}

func documented(c *cobra.Command) bool {
	return c.IsAvailableCommand() && !c.IsAdditionalHelpTopicCommand()
}

func writeList(b *strings.Builder, c *cobra.Command, depth int) {
	if !documented(c) {
		return
	}
	fmt.Fprintf(b, "%s- `%s` - %s\n", strings.Repeat("  ", depth), c.Use, c.Short)
	for _, sub := range c.Commands() {
		writeList(b, sub, depth+1)
	}
}

func writeDetails(b *strings.Builder, c *cobra.Command, parent string) {
	if c != c.Root() && !documented(c) {
		return
	}
	path := c.Name()
	if parent != "" {
		path = parent + " " + c.Name()
	}

	fmt.Fprintf(b, "### %s\n\n", path)
	switch {
	case c.Long != "":
		fmt.Fprintf(b, "%s\n\n", c.Long)
	case c.Short != "":
		fmt.Fprintf(b, "%s\n\n", c.Short)
	}
	fmt.Fprintf(b, "```\n%s\n```\n\n", c.UseLine())
	if usages := c.LocalFlags().FlagUsages(); usages != "" {
		fmt.Fprintf(b, "#### Flags\n\n```\n%s```\n\n", usages)
	}

	for _, sub := range c.Commands() {
		writeDetails(b, sub, path)
	}
}
