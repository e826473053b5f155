package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rollcall/rollcall/engine"
)

type groupOptions struct {
	requestPath string
	groups      int
	groupsSet   bool
	seed        int64
	seeded      bool
}

var groupOpts groupOptions

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Partition the active candidates of a request file into groups",
	Run: func(cmd *cobra.Command, args []string) {
		groupOpts.groupsSet = cmd.Flags().Changed("groups")
		groupOpts.seeded = cmd.Flags().Changed("seed")
		if err := runGroup(groupOpts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Group failed: %v", err)
		}
	},
}

func runGroup(opts groupOptions, out io.Writer) error {
	file, err := loadRequestFile(opts.requestPath)
	if err != nil {
		return err
	}
	rc, err := newRunContext("", "")
	if err != nil {
		return err
	}

	req := file.groupRequest()
	if opts.groupsSet || file.GroupCount == nil {
		req.GroupCount = opts.groups
	}
	if opts.seeded {
		req.Random = seededSource(opts.seed, engine.StreamGroup, req.ClassID)
	}

	if err := writeJSON(out, rc.engine.Group(req)); err != nil {
		return err
	}
	return rc.finish()
}

func init() {
	groupCmd.Flags().StringVar(&groupOpts.requestPath, "request", "", "Path to request YAML file")
	groupCmd.Flags().IntVar(&groupOpts.groups, "groups", 2, "Number of groups")
	groupCmd.Flags().Int64Var(&groupOpts.seed, "seed", 0, "Seed for a reproducible assignment")
	_ = groupCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(groupCmd)
}
