package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"budgettracker/internal/cli"
	"budgettracker/internal/sample"
)

func newSeedCmd(o *options) *cobra.Command {
	var (
		force bool
		seed  uint64
	)
	c := &cobra.Command{
		Use:   "seed",
		Short: "Load three months of sample data",
		Long: `Generates sample categories, transactions and recurring payments for the
current and two previous months. Existing data is kept unless --force is set.`,
		Example: "  budgetctl seed\n  budgetctl seed --force --seed 42",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				out := cmd.OutOrStdout()
				if !force {
					seeded, err := sample.LoadIfEmpty(ctx, rt.Store, o.now(), rng)
					if err != nil {
						return err
					}
					if !seeded {
						fmt.Fprintln(out, "Store is not empty, nothing seeded (use --force to replace)")
						return nil
					}
				} else if _, err := sample.Load(ctx, rt.Store, o.now(), rng); err != nil {
					return err
				}
				snap := rt.Store.Snapshot()
				fmt.Fprintf(out, "Seeded %d categories, %d transactions, %d recurring payments\n",
					len(snap.Categories), len(snap.Transactions), len(snap.RecurringPayments))
				return nil
			})
		},
	}
	c.Flags().BoolVar(&force, "force", false, "replace existing data")
	c.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible data (default random)")
	return c
}
