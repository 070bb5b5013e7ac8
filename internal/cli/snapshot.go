package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"docetui/internal/docet"
	"docetui/internal/dom"
	"docetui/internal/navigation"
)

type snapshotOptions struct {
	page     string
	search   string
	showMore []string
}

var snapOpts snapshotOptions

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the HTML document for a navigation",
	Long: `snapshot performs one navigation without the terminal UI and prints the
resulting document: menu, breadcrumbs and content with the state classes a
browser would see.`,
	Example: `  docetui snapshot
  docetui snapshot --page manual:install
  docetui snapshot --search install --show-more manual`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVar(&snapOpts.page, "page", "", "open pkg:page")
	f.StringVar(&snapOpts.search, "search", "", "run a search")
	f.StringSliceVar(&snapOpts.showMore, "show-more", nil, "show more results of a package (repeatable)")
	snapshotCmd.MarkFlagsMutuallyExclusive("page", "search")

	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	client, err := docet.NewClient(*cfg)
	if err != nil {
		return err
	}

	var failures []string
	ctrl := navigation.New(*cfg, client, nil, navigation.Callbacks{
		OnResponseError: func(err error) {
			log.Printf("snapshot: %v", err)
		},
	})

	ctx := withContext(cmd)
	switch {
	case snapOpts.page != "":
		pkg, page, err := parsePageRef(snapOpts.page)
		if err != nil {
			return err
		}
		err = ctrl.JumpToPage(ctx, pkg, page, false)
		if err != nil {
			return fmt.Errorf("open %s: %w", snapOpts.page, err)
		}
	case snapOpts.search != "":
		if err := ctrl.Search(ctx, snapOpts.search); err != nil {
			return fmt.Errorf("search %q: %w", snapOpts.search, err)
		}
	default:
		if err := ctrl.NavigateHome(ctx); err != nil {
			return fmt.Errorf("load packages: %w", err)
		}
	}

	for _, pkg := range snapOpts.showMore {
		if err := ctrl.ShowMore(pkg); err != nil {
			failures = append(failures, pkg)
			log.Printf("snapshot: show more %s: %v", pkg, err)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no search results to page for %v\n", failures)
	}

	return dom.NewRenderer(*cfg).Render(cmd.OutOrStdout(), ctrl.Snapshot())
}
