package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountingops/credvault/internal/domain/model"
)

// defaultServices mirrors the services the first-run wizard walks through.
var defaultServices = []struct {
	key         string
	displayName string
}{
	{"deputy", "Deputy"},
	{"xero", "Xero"},
	{"quickbooks", "QuickBooks"},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run credential setup",
	Long: `Walks through each supported accounting service and prompts for the
client's credentials, then stores the resulting profile. Any existing
profile with the same name is replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("Welcome to the credvault first-run setup.")

		name, err := promptLine(cmd, "Client name: ", true)
		if err != nil {
			return err
		}

		profile := model.ClientProfile{
			DisplayName: name,
			Services:    map[string]model.ServiceCredential{},
		}

		for _, service := range defaultServices {
			configure, err := confirm(cmd, fmt.Sprintf("\nConfigure %s credentials?", service.displayName))
			if err != nil {
				return err
			}
			if !configure {
				continue
			}

			var cred model.ServiceCredential
			if cred.ClientID, err = promptLine(cmd, fmt.Sprintf("%s client id: ", service.displayName), true); err != nil {
				return err
			}
			if cred.ClientSecret, err = promptSecret(cmd, fmt.Sprintf("%s client secret: ", service.displayName)); err != nil {
				return err
			}
			if cred.RefreshToken, err = promptLine(cmd, fmt.Sprintf("%s refresh token (optional): ", service.displayName), false); err != nil {
				return err
			}
			if cred.Region, err = promptLine(cmd, fmt.Sprintf("%s region (optional): ", service.displayName), false); err != nil {
				return err
			}
			if cred.Environment, err = promptLine(cmd, fmt.Sprintf("%s environment (optional): ", service.displayName), false); err != nil {
				return err
			}
			profile.Services[service.key] = cred
		}

		if err := store.AddOrUpdateClient(cmd.Context(), profile); err != nil {
			return err
		}

		cmd.Printf("\nStored client %s with %d configured services.\n", name, len(profile.Services))
		return nil
	},
}
