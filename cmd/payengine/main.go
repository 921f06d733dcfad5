package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"payengine/internal/db"
	"payengine/internal/domain/audit"
	domainpayroll "payengine/internal/domain/payroll"
	"payengine/internal/payroll"
	"payengine/internal/platform/config"
	"payengine/internal/platform/jobs"
	"payengine/internal/platform/metrics"
	"payengine/internal/rules"
)

var rulesDir string

var rootCmd = &cobra.Command{
	Use:   "payengine",
	Short: "Payroll gross-to-net calculation engine",
	Long:  "Computes reproducible gross-to-net payroll breakdowns across Canadian, Québec and US statutory regimes.",
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run a non-committing payroll preview from an input file",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("file")
		input, err := loadInput(inputFile)
		if err != nil {
			return err
		}

		provider, err := loadProvider()
		if err != nil {
			return err
		}

		service := domainpayroll.NewService(domainpayroll.NewMemoryStore(), payroll.NewEngine(provider), audit.NewMemory(), metrics.New())
		result, err := service.Calculate(cmd.Context(), input)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize a payroll period against the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("file")
		actorID, _ := cmd.Flags().GetString("actor")
		input, err := loadInput(inputFile)
		if err != nil {
			return err
		}

		cfg := config.Load()
		if err := cfg.ValidateForFinalize(); err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}

		provider, err := loadProvider()
		if err != nil {
			return err
		}

		service := domainpayroll.NewService(domainpayroll.NewStore(pool), payroll.NewEngine(provider), audit.New(pool), metrics.New())
		result, err := service.Finalize(ctx, input, actorID)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Preview every pay period input file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")

		entries, err := os.ReadDir(args[0])
		if err != nil {
			return err
		}

		provider, err := loadProvider()
		if err != nil {
			return err
		}
		service := domainpayroll.NewService(domainpayroll.NewMemoryStore(), payroll.NewEngine(provider), audit.NewMemory(), metrics.New())

		var tasks []jobs.Task
		results := make(map[string]*payroll.Result)
		var mu sync.Mutex
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			name := entry.Name()
			path := filepath.Join(args[0], name)
			tasks = append(tasks, jobs.Task{Name: name, Run: func(ctx context.Context) error {
				input, err := loadInput(path)
				if err != nil {
					return err
				}
				result, err := service.Calculate(ctx, input)
				if err != nil {
					return err
				}
				mu.Lock()
				results[name] = result
				mu.Unlock()
				return nil
			}})
		}
		if len(tasks) == 0 {
			return fmt.Errorf("no .yaml input files in %s", args[0])
		}

		failed := 0
		for _, outcome := range jobs.NewRunner(workers).Run(cmd.Context(), tasks) {
			if outcome.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%-30s FAILED: %v\n", outcome.Name, outcome.Err)
				continue
			}
			result := results[outcome.Name]
			fmt.Printf("%-30s %-8s gross $%10s  net $%10s\n",
				outcome.Name, result.EmployeeID, result.TaxableGross.StringFixed(2), result.NetPay.StringFixed(2))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d previews failed", failed, len(tasks))
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect jurisdiction rule data",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the rule and bracket data",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := loadProvider()
		if err != nil {
			return err
		}
		keys := provider.Keys()
		fmt.Fprintf(os.Stdout, "rule data OK: %d jurisdictions registered\n", len(keys))
		return nil
	},
}

func loadInput(path string) (payroll.PayPeriodInput, error) {
	var input payroll.PayPeriodInput
	if path == "" {
		return input, fmt.Errorf("input file is required (-f)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return input, err
	}
	if err := yaml.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parse input file: %w", err)
	}
	return input, nil
}

func loadProvider() (*rules.Provider, error) {
	if rulesDir != "" {
		return rules.LoadDir(rulesDir)
	}
	if cfg := config.Load(); cfg.RulesDir != "" {
		return rules.LoadDir(cfg.RulesDir)
	}
	return rules.LoadDefaults()
}

func printResult(result *payroll.Result) {
	fmt.Printf("Pay period %s to %s (%s, %s-%s)\n",
		result.PeriodStart.Format("2006-01-02"), result.PeriodEnd.Format("2006-01-02"),
		result.Frequency, result.Country, result.Region)
	fmt.Printf("  Regular   %8s h  $%s\n", result.RegularHours.String(), result.RegularPay.StringFixed(2))
	fmt.Printf("  Overtime  %8s h  $%s\n", result.OvertimeHours.String(), result.OvertimePay.StringFixed(2))
	fmt.Printf("  Vacation pay          $%s\n", result.VacationPay.StringFixed(2))
	fmt.Printf("  Taxable gross         $%s\n", result.TaxableGross.StringFixed(2))
	fmt.Println("  Deductions:")
	for _, item := range result.Deductions {
		if item.Rate != nil {
			fmt.Printf("    %-20s $%10s  (%s)\n", item.Name, item.Amount.StringFixed(2), item.Rate.String())
			continue
		}
		fmt.Printf("    %-20s $%10s\n", item.Name, item.Amount.StringFixed(2))
	}
	fmt.Printf("  Total deductions      $%s\n", result.TotalDeductions.StringFixed(2))
	fmt.Printf("  Non-taxable           $%s\n", result.NonTaxable.StringFixed(2))
	fmt.Printf("  Net pay               $%s\n", result.NetPay.StringFixed(2))
	fmt.Printf("  YTD credit used       $%s of $%s (provisional=%t)\n",
		result.YTD.Used.StringFixed(2), result.YTD.AnnualCredit.StringFixed(2), result.YTD.Provisional)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&rulesDir, "rules", "", "directory of rule data files (defaults to embedded data)")
	previewCmd.Flags().StringP("file", "f", "", "input YAML file")
	finalizeCmd.Flags().StringP("file", "f", "", "input YAML file")
	finalizeCmd.Flags().String("actor", "", "identifier of the user finalizing")
	batchCmd.Flags().Int("workers", 4, "number of concurrent previews")

	rulesCmd.AddCommand(rulesValidateCmd)
	rootCmd.AddCommand(previewCmd, finalizeCmd, batchCmd, rulesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
