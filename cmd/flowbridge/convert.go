package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/flowbridge/editor/converter"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/service/dao/definition"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert SOURCE [DESTINATION]",
		Short: "Convert between editor JSON and YAML definitions",
		Long: `Convert reads an editor JSON document (.json) and writes the YAML definition
of its main process, or reads a YAML definition (.yaml, .yml) and writes an
editor JSON document. Without DESTINATION the result is printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := ""
			if len(args) == 2 {
				destination = args[1]
			}
			return convert(cmd.Context(), afs.New(), args[0], destination, cmd.OutOrStdout())
		},
	}
}

func convert(ctx context.Context, fs afs.Service, source, destination string, out io.Writer) error {
	data, err := fs.DownloadWithURL(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}
	definitions := definition.New(definition.WithFS(fs))
	editor := converter.New(nil)
	var result []byte
	switch path.Ext(source) {
	case ".json":
		model, err := editor.ToModel(data)
		if err != nil {
			return err
		}
		process := model.MainProcess()
		if process == nil {
			return fmt.Errorf("%s has no process", source)
		}
		if result, err = definitions.EncodeYAML(process); err != nil {
			return err
		}
	case ".yaml", ".yml":
		process, err := definitions.DecodeYAML(data)
		if err != nil {
			return err
		}
		if result, err = editor.ToJSON(bpmn.NewModel().AddProcess(process)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported source %s: expected .json, .yaml or .yml", source)
	}
	if destination == "" {
		_, err = out.Write(result)
		return err
	}
	return fs.Upload(ctx, destination, file.DefaultFileOsMode, bytes.NewReader(result))
}
