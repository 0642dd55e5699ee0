package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vdpcore/licensed/pkg/client"
)

var (
	serverURL       string
	credentialsPath string
	exportDir       string
)

var rootCmd = &cobra.Command{
	Use:   "vdpctl",
	Short: "VDP Core license manager console",
	Long:  "Operator console for generating licenses, browsing the local history and managing admin credentials",
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive operator console",
	RunE:  runConsole,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the license server is running",
	RunE:  runHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:3000", "License server base URL")
	rootCmd.PersistentFlags().StringVarP(&credentialsPath, "credentials", "c", "", "Credential file path (default ~/.vdpcore/credentials.json)")
	consoleCmd.Flags().StringVarP(&exportDir, "export-dir", "o", ".", "Directory for CSV exports")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.New(serverURL).Health(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	fmt.Println("Serveur opérationnel.")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
