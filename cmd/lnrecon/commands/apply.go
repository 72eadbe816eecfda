package commands

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//NewApplyCmd returns the command that applies view files to a dump file
func NewApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <kind> <dump-file> <view-file>...",
		Short: "Apply tagged views to a dump and print what changed",
		Long: `Apply tagged views to a dump and print what changed.

View files use the dump format with a single source. When the dump file does
not exist, the entity is created from the first view.`,
		Args:    cobra.MinimumNArgs(3),
		PreRunE: loadConfig,
		RunE:    runApply,
	}
	cmd.Flags().String("log", _config.Config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("datadir", _config.Config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().Bool("patch", _config.Patch, "Print RFC 6902 patches instead of changed paths")
	cmd.Flags().Bool("write", _config.Write, "Overwrite the dump file with the result")
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	kind, err := kindOf(args[0])
	if err != nil {
		return err
	}
	dumpFile, viewFiles := args[1], args[2:]
	logger := _config.Config.Logger()

	views := make([]*tree.View, 0, len(viewFiles))
	for _, f := range viewFiles {
		v, err := readView(kind, f)
		if err != nil {
			return err
		}
		views = append(views, v)
	}

	var e *entity.Entity
	data, err := ioutil.ReadFile(dumpFile)
	switch {
	case err == nil:
		e, err = entity.UnmarshalDump(kind, data)
		if err != nil {
			return fmt.Errorf("%s: %v", dumpFile, err)
		}
	case os.IsNotExist(err):
		e, err = entity.FromView(kind, views[0])
		if err != nil {
			return fmt.Errorf("%s: %v", viewFiles[0], err)
		}
		logger.WithField("key", e.Key()).Debug("Created from first view")
		d := diff.Compare(kind.Schema, nil, e.Snapshot().Root)
		if err := printChange(d, kind.Schema, nil, e, viewFiles[0]); err != nil {
			return err
		}
		views, viewFiles = views[1:], viewFiles[1:]
	default:
		return err
	}

	for i, v := range views {
		before := e.Snapshot()
		d, err := e.Apply(v)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"file": viewFiles[i],
				"key":  e.Key(),
			}).WithError(err).Error("Rejected view")
			return fmt.Errorf("%s: %v", viewFiles[i], err)
		}
		if err := printChange(d, kind.Schema, before.Root, e, viewFiles[i]); err != nil {
			return err
		}
	}

	if !_config.Write {
		return nil
	}
	out, err := e.MarshalDump()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(dumpFile, out, 0644)
}

func readView(kind *entity.Kind, file string) (*tree.View, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	raw, err := tree.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	v, err := tree.DecodeView(kind.Schema, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return v, nil
}

// printChange writes what the view in file changed, from old to the current
// state of e.
func printChange(d diff.Diff, s *tree.Schema, old *tree.Node, e *entity.Entity, file string) error {
	fmt.Printf("# %s\n", file)
	if _config.Patch {
		p, err := diff.JSONPatch(s, old, e.Snapshot().Root)
		if err != nil {
			return err
		}
		fmt.Println(string(p))
		return nil
	}
	for _, entry := range d {
		fmt.Println(entry.String())
	}
	return nil
}
