package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeanthielis/relatorio-retidos/internal/calculator"
	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/session"
	"github.com/jeanthielis/relatorio-retidos/internal/util"
)

// reportOptions flags of the report command
type reportOptions struct {
	production string
	retained   string
	targetPct  float64
	exclude    []string
	groups     []string
	reason     string
	out        string
	csvOut     string
}

var reportOpts reportOptions

// reportCmd one-shot pipeline from two files to the printed summary
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Prints the summary of a production file and a retained-material file.",
	Example: `  retidos report --producao producao.xlsx --retidos retidos.csv --meta 0.5
  retidos report --producao p.csv --retidos r.csv --grupo "Vidro=Bolha,Trinca" --excluir Setup --out relatorio.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, log, err := setup(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("meta") {
			reportOpts.targetPct = cfg.Targets.TargetPct
		}

		sess, err := session.New(session.Options{
			Specs:   importer.DefaultFieldSpecs().WithOverrides(cfg.Columns),
			Targets: cfg.Targets,
			Log:     log.WithField("component", "cli"),
		})
		if err != nil {
			return err
		}
		return runReport(sess, reportOpts, cmd.OutOrStdout(), log)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.production, "producao", "", "production file (.xlsx or .csv)")
	f.StringVar(&reportOpts.retained, "retidos", "", "retained-material file (.xlsx or .csv)")
	f.Float64Var(&reportOpts.targetPct, "meta", 0.5, "loss target in percent (0 to 5)")
	f.StringArrayVar(&reportOpts.exclude, "excluir", nil, "reason to exclude (repeatable)")
	f.StringArrayVar(&reportOpts.groups, "grupo", nil, `reason group "Name=reason1,reason2" (repeatable)`)
	f.StringVar(&reportOpts.reason, "motivo", "", "reason to drill down into")
	f.StringVar(&reportOpts.out, "out", "", "write the summary workbook to this .xlsx path")
	f.StringVar(&reportOpts.csvOut, "csv", "", "write the summary to this .csv path")
	_ = reportCmd.MarkFlagRequired("producao")
	_ = reportCmd.MarkFlagRequired("retidos")
	rootCmd.AddCommand(reportCmd)
}

// runReport loads both files, applies the options and prints every view to out
func runReport(sess *session.Session, opts reportOptions, out io.Writer, log *logrus.Logger) error {
	if err := loadFile(opts.production, sess.LoadProduction); err != nil {
		return err
	}
	if err := loadFile(opts.retained, sess.LoadRetained); err != nil {
		return err
	}

	targets := sess.Targets()
	targets.TargetPct = opts.targetPct
	if err := sess.SetTargets(targets); err != nil {
		return err
	}

	for _, g := range opts.groups {
		name, reasons, err := parseGroup(g)
		if err != nil {
			return err
		}
		if err := sess.CreateGroup(name, reasons); err != nil {
			return fmt.Errorf("grupo %q: %w", name, err)
		}
	}
	sess.ExcludeReasons(opts.exclude)
	if opts.reason != "" {
		if err := sess.SelectReason(opts.reason); err != nil {
			return err
		}
	}

	report, err := sess.Report()
	if err != nil {
		var vr *importer.ValidationReport
		if errors.As(err, &vr) {
			fmt.Fprintln(out, "Problemas encontrados na estrutura dos arquivos:")
			for _, msg := range vr.Messages() {
				fmt.Fprintf(out, "  - %s\n", msg)
			}
			fmt.Fprintln(out, importer.ValidationHint)
		}
		return err
	}

	printReport(out, report)

	if opts.out != "" {
		if err := writeExport(opts.out, sess.ExportXLSX); err != nil {
			return err
		}
		log.WithField("path", opts.out).Info("workbook written")
	}
	if opts.csvOut != "" {
		if err := writeExport(opts.csvOut, sess.ExportCSV); err != nil {
			return err
		}
		log.WithField("path", opts.csvOut).Info("csv written")
	}
	return nil
}

func loadFile(path string, load func(string, io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return load(path, f)
}

func writeExport(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// parseGroup "Name=a,b" -> ("Name", [a b])
func parseGroup(s string) (string, []string, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("grupo inválido %q, use Nome=motivo1,motivo2", s)
	}
	var reasons []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}
	return strings.TrimSpace(name), reasons, nil
}

func printReport(out io.Writer, report *session.Report) {
	fmt.Fprintf(out, "Meta: %s\n\n", util.FormatPercent(report.Targets.TargetPct))

	for _, h := range report.Headlines {
		if !h.Available {
			fmt.Fprintf(out, "%s: sem dados\n", h.Line)
			continue
		}
		fmt.Fprintf(out, "%s: %s (%s)\n", h.Line, util.FormatPercent(h.PctRealized), h.Status)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINHA\tEQUIPE\tPRODUZIDO\tMETA\tRETIDO\tSALDO\t% REALIZADO\tSTATUS\t")
	printed := false
	for _, line := range []model.Line{model.LineFour, model.LineSix, model.LineOthers} {
		rows := calculator.LineRows(report.Summary, line)
		if len(rows) == 0 {
			continue
		}
		if printed {
			fmt.Fprintln(w, " \t \t \t \t \t \t \t \t")
		}
		printed = true
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Line, r.Team,
				util.FormatQuantity(r.Produced), util.FormatQuantity(r.Target),
				util.FormatQuantity(r.Retained), util.FormatQuantity(r.Surplus),
				util.FormatPercent(r.PctRealized), r.Status)
		}
	}
	w.Flush()

	for _, s := range report.Series {
		fmt.Fprintf(out, "\nEvolução mensal - %s\n", s.Line)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PERÍODO\tEQUIPE\tRETIDO\tMETA\tSTATUS\t")
		for _, p := range s.Points {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", p.Period, p.Team,
				util.FormatQuantity(p.Retained), util.FormatQuantity(p.Target), p.Status)
		}
		w.Flush()
	}

	for _, lr := range report.TopReasons {
		fmt.Fprintf(out, "\nPrincipais motivos - %s\n", lr.Line)
		for i, r := range lr.Reasons {
			fmt.Fprintf(out, "%2d. %s  %s m²\n", i+1, r.Reason, util.FormatQuantity(r.Quantity))
		}
	}

	if report.Drilldown != nil {
		printDrilldown(out, report.Drilldown)
	}
}

func printDrilldown(out io.Writer, d *model.Drilldown) {
	fmt.Fprintf(out, "\nMotivo: %s\n", d.Reason)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EQUIPE\tM²\tOCORRÊNCIAS\tACIMA DO LIMITE\t")
	for _, t := range d.Teams {
		var flags []string
		if t.AreaOver {
			flags = append(flags, "m²")
		}
		if t.OccurrenceOver {
			flags = append(flags, "ocorrências")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n", t.Team, util.FormatQuantity(t.Retained), t.Occurrences, strings.Join(flags, ", "))
	}
	w.Flush()
	for _, l := range d.Lines {
		fmt.Fprintf(out, "%s: %d ocorrências\n", l.Line, l.Occurrences)
	}
}
