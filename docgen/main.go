package main

import (
	"fmt"
	"os"

	"github.com/teei/idctl/cmd"
	idio "github.com/teei/idctl/internal/io"
	"github.com/teei/idctl/pkg/docgen"
)

func main() {
	dir := docgen.DefaultDocsDir
	switch len(os.Args) {
	case 1:
	case 2:
		dir = os.Args[1]
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [output directory] \n", os.Args[0])
		os.Exit(1)
	}
	if err := docgen.Generate(cmd.NewCmdRoot(idio.StdStreams()), dir); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Printf("Documentation generated in %s\n", dir)
}
