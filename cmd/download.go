package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tgcrawl/tgcrawl/internal/assets"
)

// newDownloadCmd creates the 'download' subcommand, which fetches a
// single artifact (client build, server config dump) into the output
// tree without the snapshot pipeline's retry machinery.
func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <url> <object-path>",
		Short: "Downloads one artifact into the output tree",
		Long: `Performs a single GET and stores the raw bytes at the given path
under the output root, for example client/tsetup.tar.xz. A non-200
response is skipped silently: missing releases are not an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := appInstance.GetLogger()

			downloader := assets.New(
				viper.GetDuration("crawl.request_timeout"),
				appInstance.GetStorage(),
				logger,
			)
			if err := downloader.Download(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("download artifact: %w", err)
			}
			logger.Info("Artifact download finished",
				zap.String("url", args[0]),
				zap.String("path", args[1]),
			)
			return nil
		},
	}
}
