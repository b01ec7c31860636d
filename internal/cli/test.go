package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountingops/credvault/internal/application"
)

var testClient string

var testCmd = &cobra.Command{
	Use:   "test SERVICE",
	Short: "Check that credentials exist for a client and service",
	Long: `Checks whether the named client holds a credential for SERVICE. This
is a local presence check only; no request is made to the service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		result := tester.Test(testClient, service)
		cmd.Printf("%s/%s: %s\n", testClient, service, result)
		if result != application.TestReady {
			return fmt.Errorf("connection test failed: %s", result)
		}
		return nil
	},
}

func init() {
	testCmd.Flags().StringVar(&testClient, "client", "", "client name to test")
	_ = testCmd.MarkFlagRequired("client")
}
