package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/celiapp/catalog/internal/domain"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// maxListed caps the skipped rows and unmatched records shown per report.
const maxListed = 10

// printReport writes a run report as JSON or as a terminal summary.
func printReport(out io.Writer, report *domain.RunReport) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err := fmt.Fprint(out, formatReport(report))
	return err
}

// formatReport renders a run report for terminal display.
//
//	run 1f0c… │ 120 rows → 117 records → 109 canonical
//	  duplicates  exact │ 6 clusters │ 14 records merged
//	  backup      98/109 matched │ 97 scores │ 80 descriptors restored
func formatReport(r *domain.RunReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%srun %s%s │ %d rows → %d records → %d canonical\n",
		colorBold, r.RunID, colorReset, r.InputRows, r.Records, r.CanonicalRecords))

	if len(r.Schema.MissingFields) > 0 {
		missing := make([]string, len(r.Schema.MissingFields))
		for i, f := range r.Schema.MissingFields {
			missing[i] = string(f)
		}
		sb.WriteString(fmt.Sprintf("  %sschema%s      missing %s\n", colorCyan, colorReset, strings.Join(missing, ", ")))
	}
	if len(r.Schema.UnmatchedHeaders) > 0 {
		sb.WriteString(fmt.Sprintf("  %sschema%s      unmatched %s\n", colorCyan, colorReset, strings.Join(r.Schema.UnmatchedHeaders, ", ")))
	}

	if r.ProductNamesFilled > 0 || r.BrandPrefixStripped > 0 {
		sb.WriteString(fmt.Sprintf("  %snames%s       %d filled │ %d brand prefixes stripped\n",
			colorCyan, colorReset, r.ProductNamesFilled, r.BrandPrefixStripped))
	}

	sb.WriteString(fmt.Sprintf("  %sbrands%s      %d unique │ %d missing",
		colorCyan, colorReset, r.UniqueBrands, r.MissingBrand))
	if len(r.BrandConsolidations) > 0 {
		sb.WriteString(fmt.Sprintf(" │ %d spellings consolidated", len(r.BrandConsolidations)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  %sduplicates%s  %s │ %d clusters │ %d records merged\n",
		colorCyan, colorReset, r.DuplicateMode, r.Clusters, r.ClusteredRecords))

	if rc := r.Reconcile; rc != nil {
		sb.WriteString(fmt.Sprintf("  %sbackup%s      %d/%d matched │ %d scores │ %d descriptors restored\n",
			colorCyan, colorReset, rc.Matched, r.CanonicalRecords, rc.RestoredGlutenScore, rc.RestoredDescriptors))
		for i, u := range rc.Unmatched {
			if i == maxListed {
				sb.WriteString(fmt.Sprintf("    %s… %d more unmatched%s\n", colorGray, len(rc.Unmatched)-maxListed, colorReset))
				break
			}
			sb.WriteString(fmt.Sprintf("    %srow %d%s %s %s %s(best %.2f)%s\n",
				colorGray, u.Row, colorReset, u.BrandName, u.ProductName, colorGray, u.BestScore, colorReset))
		}
	}

	for i, s := range r.SkippedRows {
		if i == maxListed {
			sb.WriteString(fmt.Sprintf("  %s… %d more skipped rows%s\n", colorGray, len(r.SkippedRows)-maxListed, colorReset))
			break
		}
		sb.WriteString(fmt.Sprintf("  %sskipped%s     row %d: %s\n", colorYellow, colorReset, s.Row, s.Reason))
	}

	for _, w := range r.Warnings {
		sb.WriteString(fmt.Sprintf("  %swarning%s     %s\n", colorYellow, colorReset, w))
	}

	return sb.String()
}

// formatSchema renders the header mapping, one column per line.
func formatSchema(headers []string, report *domain.SchemaReport) string {
	byColumn := make(map[int]domain.Field, len(report.Index))
	for f, col := range report.Index {
		byColumn[col] = f
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%d columns │ %d mapped%s\n", colorBold, len(headers), len(report.Index), colorReset))
	for col, h := range headers {
		if f, ok := byColumn[col]; ok {
			sb.WriteString(fmt.Sprintf("  %2d  %-28s %s→ %s%s\n", col, h, colorGreen, f, colorReset))
		} else {
			sb.WriteString(fmt.Sprintf("  %2d  %-28s %s-%s\n", col, h, colorGray, colorReset))
		}
	}
	if len(report.DuplicateHeaders) > 0 {
		sb.WriteString(fmt.Sprintf("  %sduplicate%s   %s\n", colorYellow, colorReset, strings.Join(report.DuplicateHeaders, ", ")))
	}
	for _, f := range report.MissingFields {
		sb.WriteString(fmt.Sprintf("  %smissing%s     %s\n", colorYellow, colorReset, f))
	}
	return sb.String()
}

// formatRuns renders one line per run report.
func formatRuns(reports []*domain.RunReport) string {
	if len(reports) == 0 {
		return "no runs\n"
	}

	var sb strings.Builder
	for _, r := range reports {
		matched := "-"
		if r.Reconcile != nil {
			matched = fmt.Sprintf("%d", r.Reconcile.Matched)
		}
		sb.WriteString(fmt.Sprintf("%s%s%s  %s  %d rows → %d canonical │ %d clusters │ %s restored\n",
			colorCyan, r.RunID, colorReset,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.InputRows, r.CanonicalRecords, r.Clusters, matched))
	}
	return sb.String()
}
