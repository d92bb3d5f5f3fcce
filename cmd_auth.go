package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/revkit/review"
	"github.com/minios-linux/revkit/settings"
)

// ---------------------------------------------------------------------------
// auth (API key management)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage the API keys revkit uses to reach review providers.

Keys are stored in ` + "`$XDG_DATA_HOME/revkit/auth.json`" + ` with 0600 permissions.
Lookup order: --api-key flag, ` + settings.EnvAPIKey + `, the provider's own
variable (GOOGLE_API_KEY, GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY),
then the stored key.

Examples:
  revkit auth login                          Interactive provider selection
  revkit auth login --provider google        Store a Google AI API key
  revkit auth login --provider custom-openai Store an endpoint and key
  revkit auth logout --provider google       Remove the Google key
  revkit auth logout                         Remove all keys
  revkit auth list                           Show stored keys`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

// authProviders is the ordered list of providers for the interactive menu.
var authProviders = []struct {
	id      string
	desc    string
	helpURL string
}{
	{review.ProviderGoogle, "Gemini API key, free tier available", "https://aistudio.google.com/apikey"},
	{review.ProviderGroq, "fast inference, free tier available", "https://console.groq.com/keys"},
	{review.ProviderOpenAI, "OpenAI platform key", "https://platform.openai.com/api-keys"},
	{review.ProviderAnthropic, "Anthropic console key", "https://console.anthropic.com/settings/keys"},
	{review.ProviderCustomOpenAI, "any OpenAI-compatible endpoint", ""},
}

func knownAuthProvider(id string) bool {
	for _, p := range authProviders {
		if p.id == id {
			return true
		}
	}
	return false
}

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a provider",
		Long: `Store an API key for a review provider.

If --provider is not specified, you will be prompted to choose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(os.Stdin)

			if provider == "" {
				printHeader("Select provider to authenticate:")
				for i, p := range authProviders {
					fmt.Fprintf(os.Stderr, "  %d. %s %s\n", i+1, warnTag(fmt.Sprintf("%-14s", p.id)), p.desc)
				}
				fmt.Fprintf(os.Stderr, "\nEnter choice (number or name): ")
				if !in.Scan() {
					return fmt.Errorf("no input received")
				}
				provider = pickProvider(strings.TrimSpace(in.Text()))
				if provider == "" {
					return fmt.Errorf("invalid choice. Use: revkit auth login --provider PROVIDER")
				}
			}

			if !knownAuthProvider(provider) {
				return fmt.Errorf("unknown provider '%s'. Run 'revkit auth login' for options", provider)
			}
			return authLogin(in, provider)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to authenticate")
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		completions := make([]string, 0, len(authProviders))
		for _, p := range authProviders {
			completions = append(completions, fmt.Sprintf("%s\t%s", p.id, p.desc))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// pickProvider maps a menu answer (number or ID) to a provider ID.
func pickProvider(choice string) string {
	for i, p := range authProviders {
		if choice == fmt.Sprint(i+1) || choice == p.id {
			return p.id
		}
	}
	return ""
}

func authLogin(in *bufio.Scanner, providerID string) error {
	prov := review.DefaultProviders()[providerID]
	printHeader(prov.Name + " API Key Setup")
	fmt.Fprintln(os.Stderr)

	for _, p := range authProviders {
		if p.id == providerID && p.helpURL != "" {
			fmt.Fprintf(os.Stderr, "  Get your API key from: %s\n\n", successTag(p.helpURL))
		}
	}

	baseURL := settings.GetBaseURL(providerID)
	if providerID == review.ProviderCustomOpenAI {
		if baseURL != "" {
			fmt.Fprintf(os.Stderr, "  Current endpoint: %s\n", warnTag(baseURL))
			fmt.Fprintf(os.Stderr, "  Enter new endpoint URL, or press Enter to keep: ")
		} else {
			fmt.Fprintf(os.Stderr, "  Enter endpoint URL (e.g., https://api.example.com/v1): ")
		}
		if !in.Scan() {
			return fmt.Errorf("no input received")
		}
		if v := strings.TrimSpace(in.Text()); v != "" {
			baseURL = v
		}
		if baseURL == "" {
			return fmt.Errorf("endpoint URL is required")
		}
	}

	existing := settings.GetAPIKey(providerID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s\n", warnTag(settings.MaskKey(existing)))
		fmt.Fprintf(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key: ")
	}
	if !in.Scan() {
		return fmt.Errorf("no input received")
	}
	key := strings.TrimSpace(in.Text())
	if key == "" {
		key = existing
	}
	if key == "" {
		return fmt.Errorf("no API key provided")
	}

	if err := settings.SetAPIKey(providerID, key, baseURL); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	logSuccess("%s API key saved!", prov.Name)
	fmt.Fprintf(os.Stderr, "\n  You can now use: revkit review FILE --provider %s\n\n", providerID)
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored API keys",
		Long: `Remove the stored key of one provider, or of all providers when
--provider is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("All stored credentials removed")
				return nil
			}
			if !knownAuthProvider(provider) {
				return fmt.Errorf("unknown provider '%s'. Run 'revkit auth list' to see providers", provider)
			}
			if err := settings.Remove(provider); err != nil {
				return fmt.Errorf("removing %s credentials: %w", provider, err)
			}
			logSuccess("%s credentials removed", provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			printHeader("Stored Credentials")
			store := settings.Load()

			fmt.Fprintf(os.Stderr, "\n  %s\n", warnTag("API Key Providers"))
			for _, p := range authProviders {
				fmt.Fprintf(os.Stderr, "  %-14s %s\n", p.id, credentialStatus(store[p.id]))
				if entry := store[p.id]; entry != nil && entry.BaseURL != "" {
					fmt.Fprintf(os.Stderr, "  %14s endpoint: %s\n", "", entry.BaseURL)
				}
				if name := settings.EnvVarForProvider(p.id); name != "" && os.Getenv(name) != "" {
					fmt.Fprintf(os.Stderr, "  %14s %s is set\n", "", name)
				}
			}

			fmt.Fprintf(os.Stderr, "\n  %s\n", warnTag("Environment Variables"))
			if envKey := os.Getenv(settings.EnvAPIKey); envKey != "" {
				fmt.Fprintf(os.Stderr, "  %s: %s (overrides stored keys)\n", settings.EnvAPIKey, successTag(settings.MaskKey(envKey)))
			} else {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", settings.EnvAPIKey, errorTag("not set"))
			}
			fmt.Fprintf(os.Stderr, "\n  File: %s\n\n", settings.AuthFilePath())
		},
	}
}

func credentialStatus(entry *settings.Info) string {
	switch {
	case entry != nil && entry.Key != "":
		return fmt.Sprintf("%s (key: %s)", successTag("configured"), settings.MaskKey(entry.Key))
	case entry != nil && entry.BaseURL != "":
		return fmt.Sprintf("%s (no key)", successTag("configured"))
	}
	return errorTag("not configured")
}
