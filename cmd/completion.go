package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for devc.

Supported shells: bash, zsh, fish, powershell.

Only extension commands named on the command line are mounted, so
completions cover the top-level commands and their flavours.

Bash:
  $ source <(devc completion bash)

Zsh:
  $ devc completion zsh > "${fpath[1]}/_devc"

Fish:
  $ devc completion fish | source

PowerShell:
  PS> devc completion powershell | Out-String | Invoke-Expression
`,
	}

	completionCmd.AddCommand(
		&cobra.Command{
			Use:                   "bash",
			Short:                 "Generate bash completion script",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.GenBashCompletionV2(cmd.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:                   "zsh",
			Short:                 "Generate zsh completion script",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.GenZshCompletion(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:                   "fish",
			Short:                 "Generate fish completion script",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:                   "powershell",
			Short:                 "Generate powershell completion script",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			},
		},
	)
	return completionCmd
}
