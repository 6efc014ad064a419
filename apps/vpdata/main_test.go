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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/logging"

	"github.com/vpanalysis/vpdata/dates"
	"github.com/vpanalysis/vpdata/frame"
	"github.com/vpanalysis/vpdata/vpapi"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_vpdata_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-config", "path/to/config.toml", "-log-level", "warning",
			"-csv", "-rows", "10"})
		So(err, ShouldBeNil)
		So(flags.Config, ShouldEqual, "path/to/config.toml")
		So(flags.LogLevel, ShouldEqual, logging.Warning)
		So(flags.CSV, ShouldBeTrue)
		So(flags.Rows, ShouldEqual, 10)
	})

	Convey("parseConfig", t, func() {
		Convey("suggests a sample config when the file is missing", func() {
			_, err := parseConfig(filepath.Join(tmpdir, "nonexistent.toml"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Please create config file")
		})

		Convey("rejects a config without series or assets", func() {
			p := filepath.Join(tmpdir, "empty.toml")
			So(os.WriteFile(p, []byte(`key = "k"`), 0644), ShouldBeNil)
			_, err := parseConfig(p)
			So(err, ShouldNotBeNil)
		})

		Convey("rejects assets without factors", func() {
			p := filepath.Join(tmpdir, "assets.toml")
			So(os.WriteFile(p, []byte(`assets = ["AAPL"]`), 0644), ShouldBeNil)
			_, err := parseConfig(p)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("query is nil unless the config sets an option", t, func() {
		So((&Config{}).query(), ShouldBeNil)
		So((&Config{Freq: "M"}).query(), ShouldNotBeNil)
		So((&Config{ValidateOld: 5}).query(), ShouldNotBeNil)
	})

	Convey("printData works", t, func() {
		var validateOld int
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Series      []string `json:"series"`
					ValidateOld int      `json:"validate_old"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				validateOld = body.ValidateOld
				series := make([]frame.Series, len(body.Series))
				for i, id := range body.Series {
					series[i] = frame.Series{
						Name:   id,
						Values: []float64{float64(i) + 1.0, float64(i) + 2.0},
					}
				}
				payload, err := vpapi.TestPayload(
					[]dates.Date{dates.NewDate(2022, 7, 1), dates.NewDate(2022, 7, 4)},
					series...)
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				w.Write(payload)
			}))
		defer server.Close()

		configPath := filepath.Join(tmpdir, "config.toml")
		config := `key = "testkey"
url = "` + server.URL + `"
series = ["vp:gdp.us", "vp:cpi.us"]
`
		So(os.WriteFile(configPath, []byte(config), 0644), ShouldBeNil)

		ctx := context.Background()

		Convey("CSV output", func() {
			flags, err := parseFlags([]string{"-config", configPath, "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"date,vp:gdp.us,vp:cpi.us\n2022-07-01,1,2\n2022-07-04,2,3\n")
			// No query options in the config: the API default applies.
			So(validateOld, ShouldEqual, 20)
		})

		Convey("text output with row limit", func() {
			flags, err := parseFlags([]string{"-config", configPath, "-rows", "1"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "2022-07-01")
			So(buf.String(), ShouldNotContainSubstring, "2022-07-04")
		})

		Convey("describe output", func() {
			flags, err := parseFlags([]string{"-config", configPath, "-describe"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "vp:gdp.us")
			So(buf.String(), ShouldContainSubstring, "mean")
		})
	})
}
