// Copyright © 2023 EcoSwell

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
)

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Documentation generator",
	Long:  `Generators for documentation and shell completion.`,
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man pages",
	Long:  `Generates a set of man pages for envirolog`,
	Run: func(cmd *cobra.Command, args []string) {
		header := &doc.GenManHeader{
			Title:   "ENVIROLOG",
			Section: "1",
		}
		if err := doc.GenManTree(RootCmd, header, viper.GetString("output")); err != nil {
			jww.FATAL.Fatalln(err)
		}
	},
}

var bashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate Bash autocompletion file",
	Long:  `Generates an autocompletion file for Bash`,
	Run: func(cmd *cobra.Command, args []string) {
		out := filepath.Join(viper.GetString("output"), "envirolog_completions.sh")
		if err := RootCmd.GenBashCompletionFile(out); err != nil {
			jww.FATAL.Fatalln(err)
		}
	},
}

var markdownCmd = &cobra.Command{
	Use:   "markdown",
	Short: "Generate Markdown documentation",
	Long:  `Generates documentation for envirolog in Markdown format.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := doc.GenMarkdownTree(RootCmd, viper.GetString("output")); err != nil {
			jww.FATAL.Fatalln(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(docCmd)
	docCmd.AddCommand(manCmd, bashCmd, markdownCmd)

	docCmd.PersistentFlags().String("output", "./", "Output directory")
	viper.BindPFlags(docCmd.PersistentFlags())
}
