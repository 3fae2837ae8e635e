// Command lws is the light-wallet server's operator CLI: run the HTTP
// server, or inspect/approve/reject the pending-request queue against
// the on-disk account store directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/pkg/config"
	"synnergy-network/walletserver"
)

func main() {
	root := &cobra.Command{Use: "lws"}
	root.AddCommand(serveCmd())
	root.AddCommand(dbCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the light-wallet HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env)
			if err != nil {
				return err
			}
			srv, err := walletserver.New(cfg)
			if err != nil {
				return err
			}
			defer srv.Close()
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "environment overlay name (config/<env>.yaml)")
	return cmd
}

func dbCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{Use: "db", Short: "inspect or mutate the account store directly"}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "lws.db", "path to the account store file")

	cmd.AddCommand(dbStatsCmd(&dbPath))
	cmd.AddCommand(dbApproveCmd(&dbPath))
	cmd.AddCommand(dbRejectCmd(&dbPath))
	cmd.AddCommand(dbHideCmd(&dbPath))
	return cmd
}

func openStore(dbPath string) (*accountstore.Store, error) {
	return accountstore.Open(dbPath, 0, 128, 10000)
}

func dbStatsCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print the chain height this store has recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.NewReader()
			if err != nil {
				return err
			}
			defer r.Finish()

			var height uint64
			for _, b := range r.RecentBlocks() {
				if b.Height > height {
					height = b.Height
				}
			}
			fmt.Printf("recorded chain height: %d\n", height)
			return nil
		},
	}
}

func parseAddressArg(s string) (accountstore.Address, error) {
	spendPublic, viewPublic, rerr := cryptonote.DecodeAddress(s)
	if rerr != nil {
		return accountstore.Address{}, rerr
	}
	return accountstore.Address{SpendPublic: spendPublic, ViewPublic: viewPublic}, nil
}

func dbApproveCmd(dbPath *string) *cobra.Command {
	var importScan bool
	cmd := &cobra.Command{
		Use:   "approve-request <address>",
		Short: "approve a pending CreateAccount or ImportScan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddressArg(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			kind := accountstore.CreateAccount
			if importScan {
				kind = accountstore.ImportScan
			}
			if rerr := store.Writer().ApproveRequest(kind, addr); rerr != nil {
				return rerr
			}
			fmt.Println("approved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&importScan, "import-scan", false, "approve the pending ImportScan request instead of CreateAccount")
	return cmd
}

func dbRejectCmd(dbPath *string) *cobra.Command {
	var importScan bool
	cmd := &cobra.Command{
		Use:   "reject-request <address>",
		Short: "discard a pending CreateAccount or ImportScan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddressArg(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			kind := accountstore.CreateAccount
			if importScan {
				kind = accountstore.ImportScan
			}
			if rerr := store.Writer().RejectRequest(kind, addr); rerr != nil {
				return rerr
			}
			fmt.Println("rejected")
			return nil
		},
	}
	cmd.Flags().BoolVar(&importScan, "import-scan", false, "reject the pending ImportScan request instead of CreateAccount")
	return cmd
}

func dbHideCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <account-id> <active|inactive|hidden>",
		Short: "change an account's lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uint32
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid account id %q: %w", args[0], err)
			}
			var status accountstore.AccountStatus
			switch args[1] {
			case "active":
				status = accountstore.Active
			case "inactive":
				status = accountstore.Inactive
			case "hidden":
				status = accountstore.Hidden
			default:
				return fmt.Errorf("status must be one of active, inactive, hidden")
			}

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if rerr := store.Writer().SetStatus(id, status); rerr != nil {
				return rerr
			}
			fmt.Println("updated")
			return nil
		},
	}
	return cmd
}
