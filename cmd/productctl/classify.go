package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"shopwise-web/internal/models"
	"shopwise-web/internal/service"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the status and advisories of every row of a product file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := service.NewTabularService(0).ParseFile(file, f)
			if err != nil {
				return err
			}
			return classifyRows(cmd.OutOrStdout(), service.NewClassifier(nil), rows)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func classifyRows(w io.Writer, classifier *service.Classifier, rows []models.ImportRow) error {
	for i, row := range rows {
		p, err := service.ProductFromRow("", row)
		if err != nil {
			if _, err := fmt.Fprintf(w, "Row %d: %v\n", i+2, err); err != nil {
				return err
			}
			continue
		}

		c := classifier.Classify(*p)
		if _, err := fmt.Fprintf(w, "Row %d: %s (%s) %s\n", i+2, p.ProductID, p.Name, c.Status); err != nil {
			return err
		}

		var advisories []string
		advisories = append(advisories, c.Anomalies...)
		advisories = append(advisories, c.Reorder...)
		advisories = append(advisories, c.DeadStock...)
		advisories = append(advisories, c.Turnover...)
		for _, line := range advisories {
			if _, err := fmt.Fprintf(w, "  %s\n", strings.TrimSpace(line)); err != nil {
				return err
			}
		}
	}
	return nil
}
