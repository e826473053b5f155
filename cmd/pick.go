package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/trace"
)

type pickOptions struct {
	requestPath string
	pluginsPath string
	appVersion  string
	count       int
	countSet    bool
	seed        int64
	seeded      bool
	summary     bool
}

var pickOpts pickOptions

// pickOutput is the --summary form of a pick result.
type pickOutput struct {
	Result  engine.PickResult `json:"result"`
	Summary *trace.Summary    `json:"summary"`
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick winners from a request file",
	Long:  "Run the eligibility pipeline, weighting and draw over the candidates in --request and print the result as JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		pickOpts.countSet = cmd.Flags().Changed("count")
		pickOpts.seeded = cmd.Flags().Changed("seed")
		if err := runPick(pickOpts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Pick failed: %v", err)
		}
	},
}

// runPick executes one pick. The --count flag wins over the file's count; the
// flag default applies only when the file has no count key.
func runPick(opts pickOptions, out io.Writer) error {
	file, err := loadRequestFile(opts.requestPath)
	if err != nil {
		return err
	}
	rc, err := newRunContext(opts.pluginsPath, opts.appVersion)
	if err != nil {
		return err
	}

	req := file.pickRequest()
	if opts.countSet || file.Count == nil {
		req.Count = opts.count
	}
	if opts.seeded {
		req.Random = seededSource(opts.seed, engine.StreamPick, req.ClassID)
	}

	res := rc.engine.Pick(req)
	for _, note := range res.Metadata.FallbackNotes {
		logrus.Infof("fallback: %s", note)
	}

	var payload any = res
	if opts.summary {
		payload = pickOutput{Result: res, Summary: trace.Summarize(res.Traces)}
	}
	if err := writeJSON(out, payload); err != nil {
		return err
	}
	return rc.finish()
}

func init() {
	pickCmd.Flags().StringVar(&pickOpts.requestPath, "request", "", "Path to request YAML file")
	pickCmd.Flags().StringVar(&pickOpts.pluginsPath, "plugins", "", "Path to strategy plugin YAML file")
	pickCmd.Flags().StringVar(&pickOpts.appVersion, "app-version", engine.Version, "App version used to gate plugins")
	pickCmd.Flags().IntVar(&pickOpts.count, "count", 1, "Number of winners")
	pickCmd.Flags().Int64Var(&pickOpts.seed, "seed", 0, "Seed for a reproducible draw")
	pickCmd.Flags().BoolVar(&pickOpts.summary, "summary", false, "Include an eligibility summary in the output")
	_ = pickCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(pickCmd)
}
