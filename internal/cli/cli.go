// Package cli implements the interactive visa checker used by
// cmd/visacheck-cli.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-visacheck/pkg/chart"
	"github.com/goliatone/go-visacheck/pkg/countries"
	"github.com/goliatone/go-visacheck/pkg/orchestrator"
	"github.com/goliatone/go-visacheck/pkg/submission"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUsage marks flag errors so callers can exit with status 2.
var ErrUsage = errors.New("cli: usage")

// App wires the prompter and orchestrator to an output stream.
type App struct {
	Out      io.Writer
	Err      io.Writer
	Prompter Prompter

	// Options are applied to the orchestrator built for each run.
	Options []orchestrator.Option

	// WriteFile persists the chart; defaults to os.WriteFile.
	WriteFile func(name string, data []byte, perm os.FileMode) error
}

type flags struct {
	nationality string
	residence   string
	purpose     string
	regions     string
	out         string
	format      string
	width       int
	height      int
	interactive bool
}

// Run parses args and performs one check.
func (a *App) Run(ctx context.Context, args []string) error {
	fl, err := a.parse(args)
	if err != nil {
		return err
	}

	values := url.Values{
		submission.FieldNationality: {fl.nationality},
		submission.FieldResidence:   {fl.residence},
		submission.FieldPurpose:     {fl.purpose},
	}
	for _, region := range strings.Split(fl.regions, ",") {
		if region = strings.TrimSpace(region); region != "" {
			values.Add(submission.FieldRegion, region)
		}
	}
	if fl.interactive {
		if values, err = a.ask(ctx, values); err != nil {
			return err
		}
	}

	options := append([]orchestrator.Option(nil), a.Options...)
	if fl.width > 0 {
		options = append(options, orchestrator.WithChartOptions(chart.WithSize(fl.width, fl.height)))
	}
	result, err := orchestrator.New(options...).Check(ctx, orchestrator.Request{
		Submission: submission.FromValues(values),
		SkipChart:  fl.out == "" && fl.format == FormatText,
	})
	if errors.Is(err, orchestrator.ErrInvalidSubmission) {
		for _, msg := range result.Errors.Flatten(submission.RequiredFields()...) {
			fmt.Fprintln(a.Err, msg)
		}
		return err
	}
	if err != nil {
		return err
	}

	if fl.out != "" && len(result.PNG) > 0 {
		write := a.WriteFile
		if write == nil {
			write = os.WriteFile
		}
		if err := write(fl.out, result.PNG, 0o644); err != nil {
			return fmt.Errorf("cli: write chart: %w", err)
		}
		fmt.Fprintf(a.Err, "Chart written to %s\n", fl.out)
	}
	return a.print(fl.format, result)
}

func (a *App) parse(args []string) (flags, error) {
	var fl flags
	fs := flag.NewFlagSet("visacheck-cli", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	fs.StringVar(&fl.nationality, "nationality", "", "Applicant nationality")
	fs.StringVar(&fl.residence, "residence", "", "Country of residence")
	fs.StringVar(&fl.purpose, "purpose", "", "Purpose of visa")
	fs.StringVar(&fl.regions, "region", "", "Comma separated regions (all, schengen, asian, gcc, america, other, africa, latin)")
	fs.StringVar(&fl.out, "out", "", "Write the chart PNG to this file")
	fs.StringVar(&fl.format, "format", FormatText, "Output format: text, json or yaml")
	fs.BoolVar(&fl.interactive, "i", false, "Prompt for missing answers")
	size := fs.String("size", "", "Chart size in pixels, WIDTHxHEIGHT (default 1000x500)")
	if err := fs.Parse(args); err != nil {
		return flags{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if raw := strings.TrimSpace(*size); raw != "" {
		width, height, err := parseSize(raw)
		if err != nil {
			return flags{}, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		fl.width, fl.height = width, height
	}
	switch fl.format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return flags{}, fmt.Errorf("%w: unknown format %q", ErrUsage, fl.format)
	}
	return fl, nil
}

func parseSize(raw string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(raw), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q", raw)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", raw)
	}
	return width, height, nil
}

func (a *App) ask(ctx context.Context, values url.Values) (url.Values, error) {
	prompter := a.Prompter
	if prompter == nil {
		prompter = SurveyPrompter{}
	}

	questions := []struct {
		field   string
		message string
		def     string
	}{
		{submission.FieldNationality, "Nationality:", "Pakistan"},
		{submission.FieldResidence, "Country of Residence:", "Indonesia"},
		{submission.FieldPurpose, "Visa Purpose:", "Tourism"},
	}
	for _, q := range questions {
		if strings.TrimSpace(values.Get(q.field)) != "" {
			continue
		}
		answer, err := prompter.Input(ctx, q.message, q.def)
		if err != nil {
			return nil, err
		}
		values.Set(q.field, answer)
	}

	if len(values[submission.FieldRegion]) > 0 {
		return values, nil
	}
	options := []string{countries.RegionAll.Label()}
	byLabel := map[string]countries.Region{countries.RegionAll.Label(): countries.RegionAll}
	for _, region := range countries.Regions() {
		options = append(options, region.Label())
		byLabel[region.Label()] = region
	}
	picked, err := prompter.MultiSelect(ctx, "Filter by Region:", options, []string{countries.RegionAll.Label()})
	if err != nil {
		return nil, err
	}
	for _, label := range picked {
		if region, ok := byLabel[label]; ok {
			values.Add(submission.FieldRegion, region.String())
		}
	}
	return values, nil
}

func (a *App) print(format string, result orchestrator.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Response())
	case FormatYAML:
		// Round-trip through JSON so the YAML keys match the HTTP payload.
		raw, err := json.Marshal(result.Response())
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(a.Out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(a.Out, "No countries match the selected regions.")
		return nil
	}
	fmt.Fprintf(a.Out, "Top Countries with Strong Visa Approval Rates for %s in %s\n\n",
		result.Query.Nationality, result.Query.Residence)
	for i, entry := range result.Entries {
		fmt.Fprintf(a.Out, "%d. %s\n", i+1, entry.Name)
		fmt.Fprintf(a.Out, "   Visa Type: %s\n", entry.VisaType)
		fmt.Fprintf(a.Out, "   Approval Rate: %s\n", entry.SuccessRate)
		fmt.Fprintf(a.Out, "   Notes: %s\n", entry.Note)
		fmt.Fprintf(a.Out, "   Apply here: %s\n", entry.Link)
	}
	return nil
}
