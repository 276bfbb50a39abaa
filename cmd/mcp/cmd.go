package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
)

const serverName = "idctl"

type mcpOptions struct {
	session *command.Session

	useHTTP bool
	port    int
}

// NewCmdMCP implements the mcp command
func NewCmdMCP(session *command.Session) *cobra.Command {
	ops := &mcpOptions{session: session}
	mcpCmd := &cobra.Command{
		Use:               "mcp",
		Short:             "Start idctl in MCP server mode",
		Long:              "Start idctl as model-context-protocol server so AI assistants can drive InDesign through the proxy.",
		Args:              cobra.ExactArgs(0),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ops.run(cmd.Context())
		},
	}
	mcpCmd.Flags().BoolVar(&ops.useHTTP, "http", false, "Use an HTTP server instead of stdio")
	mcpCmd.Flags().IntVar(&ops.port, "port", 8080, "HTTP Server port to use when running in HTTP mode")

	return mcpCmd
}

func (o *mcpOptions) run(ctx context.Context) error {
	// fail before serving when the config is broken
	if _, err := o.session.Client(); err != nil {
		return err
	}
	server := newServer(&tools{session: o.session})

	if !o.useHTTP {
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return server
	}, nil)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", o.port),
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdown)
	}()
	log.Infof("MCP server listening on http://%s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServer registers every tool on a new server.
func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: "v1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "ping",
		Description:  "Check that InDesign answers through the automation proxy",
		InputSchema:  EmptyInputSchema,
		OutputSchema: ReplyOutputSchema,
		Title:        "ping InDesign",
	}, t.Ping)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "document_info",
		Description:  "Retrieve name, page count and path of the active InDesign document",
		InputSchema:  DocumentInfoInputSchema,
		OutputSchema: ReplyOutputSchema,
		Title:        "active document info",
	}, t.DocumentInfo)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "create_document",
		Description:  "Create a new InDesign document. Unset fields default to one US Letter page with one-inch margins",
		InputSchema:  CreateDocumentInputSchema,
		OutputSchema: ReplyOutputSchema,
		Title:        "create document",
	}, t.CreateDocument)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "apply_colors",
		Description:  "Apply the brand colors to the active document, or create the brand swatches in it",
		InputSchema:  ApplyColorsInputSchema,
		OutputSchema: ReplyOutputSchema,
		Title:        "apply brand colors",
	}, t.ApplyColors)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "diagnose_colors",
		Description:  "Report frames of the active document filled with black or with no fill",
		InputSchema:  EmptyInputSchema,
		OutputSchema: DiagnoseOutputSchema,
		Title:        "diagnose colors",
	}, t.DiagnoseColors)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "export_pdf",
		Description:  "Export the active document to PDF and verify the written file",
		InputSchema:  ExportPDFInputSchema,
		OutputSchema: ExportOutputSchema,
		Title:        "export PDF",
	}, t.ExportPDF)
	mcp.AddTool(server, &mcp.Tool{
		Name:         "execute_extendscript",
		Description:  "Run ExtendScript code in InDesign and return its result",
		InputSchema:  ExtendScriptInputSchema,
		OutputSchema: ReplyOutputSchema,
		Title:        "execute ExtendScript",
	}, t.ExecuteExtendScript)
	return server
}
