// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestCommandUnix(t *testing.T) {
	config := &Config{
		Compiler:    "cc",
		Flags:       []string{"-O3", "-std=c++11"},
		SharedFlags: []string{"-fPIC", "-shared"},
		LinkerFlags: []string{"-lm"},
		IncludeDirs: []string{"/opt/include"},
		LibraryDirs: []string{"/opt/lib"},
	}
	invocation := config.Command("/c/source.cpp", "/c/1a2b.binary")

	want := []string{
		"cc", "-O3", "-std=c++11", "-fPIC", "-shared",
		"/c/source.cpp", "-o", "/c/1a2b.binary",
		"-I/opt/include", "-L/opt/lib", "-lm",
	}
	if !slices.Equal(invocation.Argv, want) {
		t.Errorf("Argv = %q\nwant   %q", invocation.Argv, want)
	}
	if invocation.Display != strings.Join(want, " ") {
		t.Errorf("Display = %q", invocation.Display)
	}
}

func TestCommandQuotesDisplay(t *testing.T) {
	config := &Config{Compiler: "cc", Flags: []string{"-DNAME=two words"}}
	invocation := config.Command("in.cpp", "out")
	if invocation.Argv[1] != "-DNAME=two words" {
		t.Errorf("argument was split: %q", invocation.Argv)
	}
	if !strings.Contains(invocation.Display, `'-DNAME=two words'`) &&
		!strings.Contains(invocation.Display, `-DNAME=two\ words`) {
		t.Errorf("Display %q does not quote the spaced argument", invocation.Display)
	}
}

func TestCommandWithEnvScript(t *testing.T) {
	config := &Config{Compiler: "icpx", EnvScript: ". /opt/intel/setvars.sh"}
	invocation := config.Command("in.cpp", "out")

	if len(invocation.Argv) != 3 || invocation.Argv[0] != "/bin/sh" || invocation.Argv[1] != "-c" {
		t.Fatalf("Argv = %q, want /bin/sh -c <line>", invocation.Argv)
	}
	if !strings.HasPrefix(invocation.Argv[2], ". /opt/intel/setvars.sh && icpx ") {
		t.Errorf("shell line = %q", invocation.Argv[2])
	}
}

func TestCommandMSVC(t *testing.T) {
	config := &Config{
		Platform:    PlatformWindows,
		Vendor:      VendorMSVC,
		Compiler:    "cl.exe",
		Flags:       []string{"/Ox"},
		SharedFlags: []string{"/LD"},
		IncludeDirs: []string{`C:\kiln\include`},
	}
	invocation := config.Command(`C:\c\source.cpp`, `C:\c\binary.dll`)
	want := []string{"cl.exe", "/Ox", "/LD", `C:\c\source.cpp`, `/IC:\kiln\include`, "/link", `/out:C:\c\binary.dll`}
	if !slices.Equal(invocation.Argv, want) {
		t.Errorf("Argv = %q\nwant   %q", invocation.Argv, want)
	}
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	runner := ExecRunner{}
	result, err := runner.Run(context.Background(), Invocation{
		Argv:    []string{"/bin/sh", "-c", "echo to-stdout; echo to-stderr >&2; exit 3"},
		Display: "test",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	output := string(result.Output)
	if !strings.Contains(output, "to-stdout") || !strings.Contains(output, "to-stderr") {
		t.Errorf("Output = %q, want both streams", output)
	}
}

func TestExecRunnerWritesOutputFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	output := filepath.Join(t.TempDir(), "artifact")
	result, err := ExecRunner{}.Run(context.Background(), Invocation{
		Argv: []string{"/bin/sh", "-c", `printf built > "$0"`, output},
	})
	if err != nil || result.ExitCode != 0 {
		t.Fatalf("Run = (%+v, %v)", result, err)
	}
	data, err := os.ReadFile(output)
	if err != nil || string(data) != "built" {
		t.Errorf("artifact = (%q, %v)", data, err)
	}
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Invocation{
		Argv:    []string{filepath.Join(t.TempDir(), "no-such-compiler")},
		Display: "no-such-compiler",
	})
	if err == nil {
		t.Fatal("Run should fail when the executable does not exist")
	}
}

func TestExecRunnerEmpty(t *testing.T) {
	if _, err := (ExecRunner{}).Run(context.Background(), Invocation{}); err == nil {
		t.Fatal("Run should reject an empty invocation")
	}
}
