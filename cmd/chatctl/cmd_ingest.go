package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ingestReq dto.IngestDocumentRequest

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Split, embed and store a text document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestReq.DocId, "doc-id", "", "Document id linked from history_table (required)")
	f.StringVar(&ingestReq.UploaderName, "uploader", "", "Uploader name")
	f.StringVar(&ingestReq.TableName, "table", "", "Source table of the change")
	f.StringVar(&ingestReq.Action, "action", "", "Change action (INSERT, UPDATE, DELETE)")
	f.StringVar(&ingestReq.HcpName, "hcp-name", "", "Subject HCP name")
	f.StringVar(&ingestReq.HcpEmail, "hcp-email", "", "Subject HCP email")
	f.StringVar(&ingestReq.ChangeDescription, "description", "", "Change description")
	_ = ingestCmd.MarkFlagRequired("doc-id")
}

func runIngest(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	req := ingestReq
	req.Content = string(raw)
	req.Filename = filepath.Base(args[0])

	ctx := cmd.Context()
	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := service.NewIngestService(c.UoWFactory, c.Embedder, c.Logger).IngestDocument(ctx, &req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("indexed %s: %d chunks", res.DocId, res.Chunks))
	return nil
}
