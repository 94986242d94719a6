// Package compileinfo reports how the running binary was built. Enrichment
// results are only reproducible when the producing code revision is known,
// so the command line tools log this at startup and alongside their results.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// CompileInfo is the build metadata the Go toolchain stamps into a
// module-built binary.
type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

// String renders the build metadata as a single log-friendly sentence.
func (c CompileInfo) String() string {
	msg := fmt.Sprintf("%s built with %s from commit %s (%s)", c.Package, c.GoVersion, c.Commit, c.CommitTime)
	if c.Modified {
		msg += ", with locally modified files"
	}

	return msg
}

// Get reads the build metadata out of the running binary. Binaries built
// outside a version-controlled module report empty fields rather than
// failing.
func Get() CompileInfo {
	out := CompileInfo{}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Package = info.Path
	out.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// PrintToStdErr logs the build metadata to stderr, keeping stdout free for
// data output.
func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}

// WriteProvenance records the build information together with the exact
// command line into w, so a results directory carries enough context to
// rerun the analysis that produced it.
func WriteProvenance(w io.Writer, args []string) error {
	if _, err := fmt.Fprintln(w, Get()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "invocation: %v\n", args)

	return err
}
