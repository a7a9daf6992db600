package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/slicc-sle-calculator/internal/config"
	"github.com/slicc-sle-calculator/internal/domain"
	"github.com/slicc-sle-calculator/internal/logging"
	"github.com/slicc-sle-calculator/internal/report"
	"github.com/slicc-sle-calculator/internal/service"
	"github.com/slicc-sle-calculator/internal/setup"
)

// cli holds the state shared by all subcommands of one invocation.
type cli struct {
	configFile string
	verbose    bool

	logger     *logrus.Logger
	calculator *service.CalculatorService
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "slicc",
		Short: "SLICC 2012 SLE classification calculator",
		Long: `slicc applies the SLICC 2012 classification rule for systemic lupus
erythematosus: biopsy-proven lupus nephritis with ANA or anti-dsDNA, or at
least 4 criteria with at least 1 clinical and 1 immunologic.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Config file (default: ./config.yaml if present)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(c.criteriaCmd())
	root.AddCommand(c.evaluateCmd())
	root.AddCommand(c.setupCmd())

	return root
}

func (c *cli) init(errOut io.Writer) error {
	var opts []config.Option
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	manager, err := config.NewManager(opts...)
	if err != nil {
		return err
	}
	reportCfg := manager.GetReportConfig()

	logCfg := domain.LoggingConfig{Level: "warn", Format: "text"}
	if c.verbose {
		logCfg.Level = "debug"
	}
	c.logger = logging.NewLoggerWithOutput(logCfg, errOut)

	renderer := report.NewPDFRenderer(c.logger,
		report.WithCompression(reportCfg.Compress),
		report.WithAuthor(reportCfg.Author),
	)
	c.calculator = service.NewCalculatorService(c.logger, renderer)
	return nil
}

func (c *cli) criteriaCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "List the SLICC clinical and immunologic criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := c.calculator.Catalog()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, view)
			}

			printCatalog(out, domain.CLINICAL, view.Clinical)
			fmt.Fprintln(out)
			printCatalog(out, domain.IMMUNOLOGIC, view.Immunologic)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

func printCatalog(out io.Writer, group domain.CriterionGroup, criteria []domain.Criterion) {
	fmt.Fprintf(out, "%s criteria (%d):\n", group.Label(), len(criteria))
	for i, cr := range criteria {
		fmt.Fprintf(out, "%3d. %s\n", i+1, cr.Name)
		if cr.Description != "" {
			fmt.Fprintf(out, "     %s\n", cr.Description)
		}
	}
}

func (c *cli) evaluateCmd() *cobra.Command {
	var (
		nephritis   bool
		serology    bool
		clinical    []string
		immunologic []string
		reportPath  string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a set of SLICC criteria",
		Example: `  slicc evaluate --clinical Renal --clinical Synovitis --immunologic Anti-Sm --immunologic "Low complement"
  slicc evaluate --nephritis --serology --report sle_diagnosis_report.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := domain.NewEvaluationInput(nephritis, serology, clinical, immunologic)
			out := cmd.OutOrStdout()

			if reportPath == "" {
				result, err := c.calculator.Evaluate(cmd.Context(), input)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, result)
				}
				printResult(out, result)
				return nil
			}

			rep, err := c.calculator.GenerateReport(cmd.Context(), input)
			if err != nil {
				return err
			}
			if err := os.WriteFile(reportPath, rep.Content, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			if asJSON {
				return writeJSON(out, rep)
			}
			printResult(out, rep.Result)
			fmt.Fprintf(out, "Report written to %s\n", reportPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&nephritis, "nephritis", false, "Biopsy-proven lupus nephritis")
	cmd.Flags().BoolVar(&serology, "serology", false, "ANA or anti-dsDNA positive")
	cmd.Flags().StringArrayVar(&clinical, "clinical", nil, "Selected clinical criterion (repeatable)")
	cmd.Flags().StringArrayVar(&immunologic, "immunologic", nil, "Selected immunologic criterion (repeatable)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the PDF report to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResult(out io.Writer, r *domain.EvaluationResult) {
	fmt.Fprintf(out, "Diagnosis: %s\n", r.Diagnosis)
	fmt.Fprintf(out, "%s\n", r.Message)
	fmt.Fprintf(out, "Rule: %s\n", r.Rule)
	fmt.Fprintf(out, "Lupus nephritis: %t, ANA/anti-dsDNA: %t\n", r.Nephritis, r.Serology)
	printSelected(out, "Clinical", r.ClinicalSelected)
	printSelected(out, "Immunologic", r.ImmunologicSelected)
	fmt.Fprintf(out, "Total Criteria Selected: %d\n", r.TotalCount)
}

func printSelected(out io.Writer, label string, names []string) {
	fmt.Fprintf(out, "%s Criteria Selected: %d\n", label, len(names))
	for _, n := range names {
		fmt.Fprintf(out, "  - %s\n", n)
	}
}

func (c *cli) setupCmd() *cobra.Command {
	var opts setup.Options

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the SLICC MCP server with Claude Desktop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setup.Register(opts)
			if err != nil {
				return err
			}
			c.logger.WithField("config_path", path).Debug("MCP client configuration updated")
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", serverName(opts), path)
			fmt.Fprintln(cmd.OutOrStdout(), "Restart Claude Desktop to load the server.")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config-path", "", "Client config file (default: platform location)")
	cmd.Flags().StringVar(&opts.BinaryPath, "binary", "", "Path to "+setup.BinaryName+" (default: search PATH)")
	cmd.Flags().StringVar(&opts.ServerName, "name", setup.DefaultServerName, "Server name in the client config")
	cmd.Flags().StringToStringVar(&opts.Env, "env", nil, "Environment passed to the server, e.g. SLICC_LOGGING_LEVEL=debug")
	return cmd
}

func serverName(opts setup.Options) string {
	if opts.ServerName == "" {
		return setup.DefaultServerName
	}
	return opts.ServerName
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
