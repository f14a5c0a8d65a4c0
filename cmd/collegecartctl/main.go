package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"collegecart/internal/config"
	"collegecart/internal/repos"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "collegecartctl",
		Short:   "CollegeCart admin utility",
		Version: Version,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createUserCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(orderStatusCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(deleteUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*repos.OrderRepo, *repos.UserRepo, error) {
	cfg := config.Load()
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return repos.NewOrderRepo(db), repos.NewUserRepo(db), nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and listings into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := repos.OpenDB(cfg.DBDSN)
			if err != nil {
				return err
			}
			return repos.SeedDemo(db)
		},
	}
}

func createUserCmd() *cobra.Command {
	var email, password, name, hostel, room, phone string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := validate.Email(email); !ok {
				return fmt.Errorf("invalid email")
			}
			if !validate.Password(password) {
				return fmt.Errorf("password must be 8-64 chars with upper, lower and digit")
			}
			cfg := config.Load()
			db, err := repos.OpenDB(cfg.DBDSN)
			if err != nil {
				return err
			}
			auth := &services.AuthService{Users: repos.NewUserRepo(db)}
			u, err := auth.Register(email, password, name, hostel, room, phone)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (%s)\n", u.ID, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&hostel, "hostel", "", "hostel")
	cmd.Flags().StringVar(&room, "room", "", "room number")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func ordersCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the latest orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderRepo, _, err := openDB()
			if err != nil {
				return err
			}
			rows, err := orderRepo.ListLatest(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBUYER\tTOTAL\tSTATUS\tCREATED")
			for _, o := range rows {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", o.ID, o.BuyerID, o.Total, o.Status, o.CreatedAt)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	return cmd
}

// orderStatusCmd is the only path that drives an order to confirmed or
// cancelled; the API itself only moves pending -> delivered.
func orderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order-status <order-id> <status>",
		Short: "Override an order's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := validate.OrderStatus(args[1])
			if !ok {
				return fmt.Errorf("status must be pending|confirmed|delivered|cancelled")
			}
			orderRepo, _, err := openDB()
			if err != nil {
				return err
			}
			if err := orderRepo.UpdateStatus(args[0], status); err != nil {
				return err
			}
			fmt.Printf("order %s -> %s\n", args[0], status)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <seller-id>",
		Short: "Show a seller's dashboard aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderRepo, _, err := openDB()
			if err != nil {
				return err
			}
			s, err := orderRepo.StatsForSeller(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("products: %d\nsales:    %d\nrevenue:  %.2f\n",
				s.TotalProducts, s.TotalSales, s.TotalRevenue)
			return nil
		},
	}
}

func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Remove a user; their pending orders are cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, userRepo, err := openDB()
			if err != nil {
				return err
			}
			if err := userRepo.DeleteCascade(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted user %s\n", args[0])
			return nil
		},
	}
}
