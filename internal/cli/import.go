package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"study-planner/internal/service"
)

// ImportCmd returns the import command.
func ImportCmd() *cobra.Command {
	var (
		templateID uint
		file       string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append template items from a CSV file or a pasted list",
		Long: `Append items to a template. A .csv file needs a title column and may carry a link
(or link_url) column. Any other file is read as pasted text: one item per line, the title
followed by an optional link after a comma or a tab.`,
		Example: `  studyplanner import --template 3 --file chapters.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return errors.Wrap(err, "open import file")
			}
			defer f.Close()

			var input service.ImportInput
			if strings.EqualFold(filepath.Ext(file), ".csv") {
				input.CSV = f
			} else {
				data, err := io.ReadAll(f)
				if err != nil {
					return errors.Wrap(err, "read import file")
				}
				input.PasteText = string(data)
			}

			a, err := loadApp("IMPORT : ")
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.templates.Import(cmd.Context(), templateID, input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range items {
				fmt.Fprintf(out, "%s %3d  %s\n", color.GreenString("+"), it.Order, it.Title)
			}
			fmt.Fprintf(out, "%d items imported\n", len(items))
			return nil
		},
	}

	cmd.Flags().UintVarP(&templateID, "template", "t", 0, "template id")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to import")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
