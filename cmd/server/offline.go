package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	service "ota-reconciliation-backend/internal/services/reconciliation"
)

func readUpload(path string) (service.Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Filename: filepath.Base(path), Content: content}, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "written to %s\n", path)
	return nil
}

func auditCommand() *cobra.Command {
	var sourcePath, systemPath, outPath string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Reconcile an OTA order export against a PMS export",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readUpload(sourcePath)
			if err != nil {
				return err
			}
			system, err := readUpload(systemPath)
			if err != nil {
				return err
			}

			out, err := service.NewReconciliationService().RunAudit(cmd.Context(), service.AuditInput{Source: source, System: system})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Result.Summary.String())

			data, err := service.AuditWorkbook(out.Result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	cmd.Flags().StringVar(&sourcePath, "source", "", "OTA order export (.xlsx or .csv)")
	cmd.Flags().StringVar(&systemPath, "system", "", "PMS reservation export (.xlsx or .csv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "reconciliation_result.xlsx", "output workbook")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("system")
	return cmd
}

func compareDatesCommand() *cobra.Command {
	var systemPath, otaPath, outPath string

	cmd := &cobra.Command{
		Use:   "compare-dates",
		Short: "Compare stay dates and prices between a PMS export and an OTA export",
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := readUpload(systemPath)
			if err != nil {
				return err
			}
			ota, err := readUpload(otaPath)
			if err != nil {
				return err
			}

			out, err := service.NewReconciliationService().RunDateComparison(cmd.Context(), service.DateInput{System: system, OTA: ota})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compared %d of %d bookings: %d mismatched, %d not found\n",
				out.Comparison.Compared, out.Total, len(out.Comparison.Mismatches), len(out.Comparison.NotFound))

			data, err := service.DateWorkbook(out.Comparison)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	cmd.Flags().StringVar(&systemPath, "system", "", "PMS export with YYMMDD dates")
	cmd.Flags().StringVar(&otaPath, "ota", "", "OTA export")
	cmd.Flags().StringVarP(&outPath, "out", "o", "date_comparison.xlsx", "output workbook")
	_ = cmd.MarkFlagRequired("system")
	_ = cmd.MarkFlagRequired("ota")
	return cmd
}

func meituanCommand() *cobra.Command {
	var (
		emlPaths   []string
		systemPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "meituan",
		Short: "Look up (JLG) numbers from Meituan emails in a PMS export",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.MeituanInput{}
			for _, p := range append(emlPaths, args...) {
				u, err := readUpload(p)
				if err != nil {
					return err
				}
				in.Emails = append(in.Emails, u)
			}
			system, err := readUpload(systemPath)
			if err != nil {
				return err
			}
			in.System = system

			out, err := service.NewReconciliationService().RunMeituanLookup(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d numbers, %d found\n", len(out.Numbers), len(out.Result.Rows))
			if len(out.Result.NotFound) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "not found: %v\n", out.Result.NotFound)
			}
			if len(out.SkippedEmails) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped: %v\n", out.SkippedEmails)
			}

			data, err := service.MeituanWorkbook(out.Result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	cmd.Flags().StringSliceVar(&emlPaths, "eml", nil, "Meituan notification email (repeatable)")
	cmd.Flags().StringVar(&systemPath, "system", "", "PMS reservation export")
	cmd.Flags().StringVarP(&outPath, "out", "o", "meituan_match_results.xlsx", "output workbook")
	_ = cmd.MarkFlagRequired("system")
	return cmd
}
