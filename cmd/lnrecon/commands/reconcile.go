package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/fetch"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/reconcile"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//NewReconcileCmd returns the command that reconciles one entity from the
//recorded lnd responses
func NewReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [channel <id> | node <pubkey>]",
		Short: "Merge every lnd view of one entity and print it",
		Long: `Merge every lnd view of one entity and print it.

Channel ids are accepted in the numeric form or as blockxtxxout.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: loadConfig,
		RunE:    runReconcile,
	}
	addCommonFlags(cmd)
	cmd.Flags().String("format", _config.Format, "Output format: dump or view")
	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	kind, err := kindOf(args[0])
	if err != nil {
		return err
	}

	logger := _config.Config.Logger()
	f := fetch.NewFetcher(lnd.NewDir(_config.Config.LndDir), logger.WithField("component", "fetch"))

	ctx, cancel := context.WithTimeout(context.Background(), _config.Config.FetchTimeout)
	defer cancel()

	var views []*tree.View
	switch kind.Name {
	case identity.ChannelKind:
		chanID, err := parseChannelID(args[1])
		if err != nil {
			return err
		}
		local, err := f.Local(ctx)
		if err != nil {
			return err
		}
		views, err = f.Channel(ctx, local, chanID)
		if err != nil {
			return err
		}
	case identity.NodeKind:
		views, err = f.Node(ctx, args[1])
		if err != nil {
			return err
		}
	}

	snap, err := reconcile.MergeAll(kind.Schema, views...)
	if err != nil {
		return err
	}
	e, err := entity.New(kind, entity.Origin{Dump: tree.Encode(kind.Schema, snap)})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"kind":  kind.Name,
		"key":   e.Key(),
		"views": len(views),
		"state": e.State(),
	}).Debug("Reconciled")

	var out interface{}
	switch _config.Format {
	case "dump":
		out = e.Dump()
	case "view":
		out = e.ToView()
	default:
		return fmt.Errorf("unknown format %q", _config.Format)
	}
	raw, err := tree.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(raw))
	return nil
}

func parseChannelID(s string) (uint64, error) {
	if id, err := lnd.ParseChannelID(s); err == nil {
		return id, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel id %q", s)
	}
	return id, nil
}
