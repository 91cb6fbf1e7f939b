package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/errmsg"
)

var errNoSources = errors.New("no folders given and no library_sources configured")

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [folder...]",
	Short: "Scan folders for audio files and add them to the catalog",
	Long: "Scan folders for .mp3 and .flac files and add or refresh them in the catalog.\n" +
		"Without arguments the configured library_sources are scanned.",
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	roots := args
	if len(roots) == 0 {
		roots = e.cfg.LibrarySources
	}
	if len(roots) == 0 {
		return errmsg.Wrap(errmsg.OpSourceLoad, errNoSources)
	}

	res, err := catalog.NewImporter(e.catalog, e.log).Import(ctx, roots)
	if err != nil {
		return errmsg.Wrap(errmsg.OpCatalogImport, err)
	}
	cmd.Printf("scanned %d files: %d added, %d updated, %d failed\n",
		res.Scanned, res.Added, res.Updated, res.Failed)
	if res.Failed > 0 {
		cmd.PrintErrf("%d files could not be read, see the log for details\n", res.Failed)
	}
	return nil
}
