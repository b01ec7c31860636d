package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/accountingops/credvault/internal/domain/model"
)

var (
	addService      string
	addClientID     string
	addClientSecret string
	addRefreshToken string
	addRegion       string
	addEnvironment  string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage client profiles",
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all client profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clients := store.Clients()
		if len(clients) == 0 {
			cmd.Println("No clients configured.")
			return nil
		}
		for _, client := range clients {
			cmd.Printf("%s (%d services)\n", client.DisplayName, len(client.Services))
		}
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a client profile with secrets masked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ok := store.FindClient(args[0])
		if !ok {
			return fmt.Errorf("no client named %q", args[0])
		}

		cmd.Println(client.DisplayName)
		services := make([]string, 0, len(client.Services))
		for service := range client.Services {
			services = append(services, service)
		}
		sort.Strings(services)
		for _, service := range services {
			cred := client.Services[service]
			cmd.Printf("  %s:\n", service)
			cmd.Printf("    client id:     %s\n", valueOrUnset(cred.ClientID))
			cmd.Printf("    client secret: %s\n", maskSecret(cred.ClientSecret))
			cmd.Printf("    refresh token: %s\n", maskSecret(cred.RefreshToken))
			cmd.Printf("    region:        %s\n", valueOrUnset(cred.Region))
			cmd.Printf("    environment:   %s\n", valueOrUnset(cred.Environment))
		}
		return nil
	},
}

var clientServicesCmd = &cobra.Command{
	Use:   "services NAME",
	Short: "List the services configured for a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, service := range store.ServicesForClient(args[0]) {
			cmd.Println(service)
		}
		return nil
	},
}

var clientAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a client or set one of its service credentials",
	Long: `Create the named client, optionally setting the credentials for one
service. Without --service an empty client profile is created. With
--service the remaining services of an existing client are kept as-is;
only the named service is replaced. Secrets omitted on the command line
are prompted for, with input hidden when running in a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profile, ok := store.FindClient(name)
		if !ok {
			profile = model.ClientProfile{
				DisplayName: name,
				Services:    map[string]model.ServiceCredential{},
			}
		}

		if addService != "" {
			cred := model.ServiceCredential{
				ClientID:     addClientID,
				ClientSecret: addClientSecret,
				RefreshToken: addRefreshToken,
				Region:       addRegion,
				Environment:  addEnvironment,
			}
			if cred.ClientID == "" {
				v, err := promptLine(cmd, fmt.Sprintf("%s client id: ", addService), true)
				if err != nil {
					return err
				}
				cred.ClientID = v
			}
			if cred.ClientSecret == "" {
				v, err := promptSecret(cmd, fmt.Sprintf("%s client secret: ", addService))
				if err != nil {
					return err
				}
				cred.ClientSecret = v
			}
			profile.Services[addService] = cred
		}

		if err := store.AddOrUpdateClient(cmd.Context(), profile); err != nil {
			return err
		}

		if addService != "" {
			cmd.Printf("Stored %s credentials for %s.\n", addService, profile.DisplayName)
		} else {
			cmd.Printf("Stored client %s.\n", profile.DisplayName)
		}
		return nil
	},
}

var clientRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a client and all its credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := store.RemoveClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			cmd.Printf("No client named %q.\n", args[0])
			return nil
		}
		cmd.Printf("Removed client %s.\n", args[0])
		return nil
	},
}

func init() {
	clientAddCmd.Flags().StringVar(&addService, "service", "", `service key, e.g. "deputy", "xero" or "quickbooks"`)
	clientAddCmd.Flags().StringVar(&addClientID, "client-id", "", "OAuth client id")
	clientAddCmd.Flags().StringVar(&addClientSecret, "client-secret", "", "OAuth client secret (prompted if omitted)")
	clientAddCmd.Flags().StringVar(&addRefreshToken, "refresh-token", "", "OAuth refresh token")
	clientAddCmd.Flags().StringVar(&addRegion, "region", "", "service region")
	clientAddCmd.Flags().StringVar(&addEnvironment, "environment", "", "service environment, e.g. sandbox or production")

	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientServicesCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientRemoveCmd)
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskSecret(v string) string {
	if v == "" {
		return "(not set)"
	}
	return "(set)"
}
