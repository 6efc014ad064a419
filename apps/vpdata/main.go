// Copyright 2025 VP Analysis

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command vpdata fetches macro series and asset-factor data from the VP
// Analysis API and writes them as CSV or an aligned text table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/vpanalysis/vpdata/dates"
	"github.com/vpanalysis/vpdata/frame"
	"github.com/vpanalysis/vpdata/vpapi"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Config   string // path to the TOML config
	LogLevel logging.Level
	CSV      bool // dump CSV format; default: text
	Describe bool // print per-column summary statistics instead of data
	Rows     int  // max. rows to print; 0 = all
	Out      string
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("vpdata", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config",
		filepath.Join(os.Getenv("HOME"), ".vpdata", "config.toml"),
		"configuration path")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.CSV, "csv", false, "print frame in CSV format; default: text")
	fs.BoolVar(&flags.Describe, "describe", false,
		"print per-column summary statistics instead of the data")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; 0 = all")
	fs.StringVar(&flags.Out, "out", "", "output file; default: stdout")

	err := fs.Parse(args)
	return &flags, err
}

type Config struct {
	Key           string   `toml:"key"` // falls back to VP_ANALYSIS_API_KEY
	URL           string   `toml:"url"` // falls back to VP_DATA_API_URL
	Series        []string `toml:"series"`
	Assets        []string `toml:"assets"`
	Factors       []string `toml:"factors"`
	Freq          string   `toml:"freq"`
	Currency      string   `toml:"currency"`
	FirstRevision bool     `toml:"first_revision"`
	ValidateOld   int      `toml:"validate_old"`
	StartDate     string   `toml:"start_date"`
	Clean         bool     `toml:"clean"`
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretVPAnalysisKey"
series = ["vp:gdp.us", "vp:cpi.us"]
freq = "B"
start_date = "1997-01-01"
clean = true
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		}
		return nil, errors.Annotate(err,
			"cannot check config file for existence: '%s'", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if len(c.Series) == 0 && len(c.Assets) == 0 {
		return nil, errors.Reason("config %s requests no series and no assets", filePath)
	}
	if len(c.Assets) > 0 && len(c.Factors) == 0 {
		return nil, errors.Reason("config %s lists assets but no factors", filePath)
	}
	return &c, nil
}

// query builds the API query from the config options. It returns nil when no
// option is set, so the API's own defaults apply.
func (c *Config) query() *vpapi.SeriesQuery {
	if c.Freq == "" && c.Currency == "" && !c.FirstRevision && c.ValidateOld == 0 {
		return nil
	}
	q := vpapi.NewSeriesQuery()
	if c.Freq != "" {
		q = q.Freq(dates.Frequency(c.Freq))
	}
	if c.Currency != "" {
		q = q.Currency(c.Currency)
	}
	if c.FirstRevision {
		q = q.FirstRevision(true)
	}
	if c.ValidateOld != 0 {
		q = q.ValidateOld(c.ValidateOld)
	}
	return q
}

// useClient injects the API client configured from the config file, falling
// back to the environment for the key and base URL.
func useClient(ctx context.Context, c *Config) (context.Context, error) {
	var opts []vpapi.ClientOption
	if c.URL != "" {
		opts = append(opts, vpapi.WithBaseURL(c.URL))
	}
	if c.Key != "" {
		return vpapi.UseClient(ctx, c.Key, opts...), nil
	}
	return vpapi.UseClientFromEnv(ctx, opts...)
}

func fetchFrame(ctx context.Context, c *Config) (*frame.Frame, error) {
	q := c.query()
	f := frame.Empty()
	if len(c.Series) > 0 {
		sf, err := vpapi.GetDataFrame(ctx, c.Series, q)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch series")
		}
		f = sf
	}
	if len(c.Assets) > 0 {
		af, err := vpapi.GetAssetData(ctx, c.Assets, c.Factors, q)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch asset data")
		}
		var err2 error
		f, err2 = f.Join(af)
		if err2 != nil {
			return nil, errors.Annotate(err2, "failed to join asset data")
		}
	}
	if !c.Clean {
		return f, nil
	}
	freq, err := dates.ParseFrequency(c.Freq)
	if err != nil {
		return nil, errors.Annotate(err, "bad freq in config")
	}
	start := dates.NewDate(1997, 1, 1)
	if c.StartDate != "" {
		start, err = dates.NewDateFromString(c.StartDate)
		if err != nil {
			return nil, errors.Annotate(err, "bad start_date in config")
		}
	}
	return f.Clean(start, freq), nil
}

func writeDescribe(w io.Writer, f *frame.Frame) error {
	_, err := fmt.Fprintf(w, "%-20s %8s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "max")
	if err != nil {
		return errors.Annotate(err, "failed to write header")
	}
	for _, s := range f.Describe() {
		_, err := fmt.Fprintf(w, "%-20s %8d %12.6g %12.6g %12.6g %12.6g\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.Max)
		if err != nil {
			return errors.Annotate(err, "failed to write summary for %s", s.Column)
		}
	}
	return nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	cfg, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	ctx, err = useClient(ctx, cfg)
	if err != nil {
		return errors.Annotate(err, "failed to configure client")
	}
	f, err := fetchFrame(ctx, cfg)
	if err != nil {
		return errors.Annotate(err, "failed to fetch data")
	}
	logging.Infof(ctx, "fetched %d rows x %d columns", f.NumRows(), f.NumColumns())

	if flags.Describe {
		return writeDescribe(w, f)
	}
	p := frame.Params{Rows: flags.Rows}
	if flags.CSV {
		return f.WriteCSV(w, p)
	}
	return f.WriteText(w, p)
}

func run(ctx context.Context, flags *Flags) error {
	var w io.Writer = os.Stdout
	if flags.Out != "" {
		f, err := os.Create(flags.Out)
		if err != nil {
			return errors.Annotate(err, "failed to create output file %s", flags.Out)
		}
		defer f.Close()
		w = f
	}
	return printData(ctx, flags, w)
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
