package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/config"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for cadence.

To load completions:

Bash:
  $ source <(cadence completion bash)

Zsh:
  $ cadence completion zsh > "${fpath[1]}/_cadence"
  $ compinit

Fish:
  $ cadence completion fish | source

PowerShell:
  PS> cadence completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(w)
		case "zsh":
			return rootCmd.GenZshCompletion(w)
		case "fish":
			return rootCmd.GenFishCompletion(w, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(w)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeChainNames completes --chain values from the config file.
func completeChainNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := make([]string, 0, len(cfg.Chains))
	for _, ch := range cfg.Chains {
		names = append(names, ch.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
