package main

import (
	"fmt"

	"cardcrawl/pkg/assetname"
	"cardcrawl/pkg/storage"
	"cardcrawl/pkg/ui"

	"github.com/spf13/cobra"
)

var checkAssets bool

// assetsCmd represents the assets command
var assetsCmd = &cobra.Command{
	Use:   "assets <card name>...",
	Short: "Map card display names to image file names",
	Long: `Print the image file that holds each card, using the same naming the
crawl uses. "Evo Mega Knight" maps to mega-knight-ev1.png and "P.E.K.K.A"
to pekka.png.

With --check, also report which of those files are missing from the output
directory; the command fails when any are.`,
	Example: `  cardcrawl assets "Mega Knight" "Evo Archers"
  cardcrawl assets --check -o ./public/assets/cards "The Log"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.Flags().BoolVar(&checkAssets, "check", false, "report names whose image file is missing")
	assetsCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory to check (default ./public/assets/cards)")
}

func runAssets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mapper := assetname.Mapper{
		EvolutionSuffix: cfg.Site.EvolutionSuffix,
		Extension:       cfg.Output.FileExtension,
	}
	store := storage.OpenExisting(cfg.Output.BaseDirectory, cfg.Output.FileExtension)

	missing := 0
	for _, name := range args {
		fileName := mapper.FileName(name)
		if !checkAssets {
			fmt.Fprintf(ui.Output, "%s\t%s\n", name, fileName)
			continue
		}

		if store.Exists(mapper.Identifier(name)) {
			fmt.Fprintf(ui.Output, "%s %s\t%s\n", ui.Green("✓"), name, fileName)
		} else {
			missing++
			fmt.Fprintf(ui.Output, "%s %s\t%s\n", ui.Red("✗"), name, fileName)
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d card images missing from %s", missing, len(args), cfg.Output.BaseDirectory)
	}
	return nil
}
