package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotline",
		Short: "Turn a database schema into queries and dashboards",
		Long: `Plotline reads a database schema, as SQL DDL or a Mermaid ER diagram,
infers the relationships between tables, and synthesizes ready-to-run SQL
queries for the analytical questions you give it, each with a chart
recommendation and an optional D3 dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./plotline.yaml)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newSynthesizeCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("plotline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.plotline")
	}

	viper.SetEnvPrefix("PLOTLINE")
	viper.AutomaticEnv()
	viper.ReadInConfig() // config file is optional
}
