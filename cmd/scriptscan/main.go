// Command scriptscan parses a screenplay text file and reports its
// structure, nouns, and interactions. The parse can optionally be saved
// to a SQLite database and exported as JSON artifacts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/correosdelbosque/tsl/internal/ingest"
	"github.com/correosdelbosque/tsl/internal/report"
	"github.com/correosdelbosque/tsl/internal/store"
	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/extract"
)

func main() {
	modeFlag := flag.String("mode", "strict", "parse mode: strict or fuzzy")
	dbFlag := flag.String("db", "", "SQLite database to save the parse into (optional)")
	outFlag := flag.String("out", "", "directory for JSON report artifacts (optional)")
	idFlag := flag.String("id", "", "script id for storage (default: file name without extension)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scriptscan [flags] <script.txt>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	scriptPath := flag.Arg(0)

	mode, err := script.ParseMode(*modeFlag)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		log.Fatalf("read script: %v", err)
	}
	lines := ingest.SplitLines(data)

	diags := diag.NewList()
	res := extract.Run(lines, mode, diags)

	scriptID := *idFlag
	if scriptID == "" {
		base := filepath.Base(scriptPath)
		scriptID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fmt.Printf("%s: %d lines, %d scenes, %d nouns, %d interactions (%s mode)\n",
		scriptID, len(lines), len(res.Doc.Scenes), len(res.Nouns.Names()), res.Links.Len(), mode)
	if diags.Len() > 0 {
		fmt.Printf("%d diagnostics:\n", diags.Len())
		for _, d := range diags.All() {
			fmt.Println("  " + d.String())
		}
	}

	if *dbFlag != "" {
		st, err := store.NewSQLiteStoreWithDSN(*dbFlag)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer st.Close()

		if err := st.SaveScript(scriptID, store.Flatten(scriptID, res, diags)); err != nil {
			log.Fatalf("save parse: %v", err)
		}
		fmt.Printf("saved parse %q to %s\n", scriptID, *dbFlag)
	}

	if *outFlag != "" {
		abs, err := filepath.Abs(*outFlag)
		if err != nil {
			log.Fatalf("resolve output dir: %v", err)
		}
		fs := osfs.NewFS()
		dir, err := fs.FromOSPath(abs)
		if err != nil {
			log.Fatalf("resolve output dir: %v", err)
		}
		if err := report.Write(fs, dir, scriptID, res, diags); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Printf("wrote report artifacts to %s\n", abs)
	}
}
