package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Call is one process invocation recorded by FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner is a process runner double. Invocations of Compiler simulate a
// compile by writing the "-o" target with the current time as its
// modification time; every other invocation is recorded and succeeds unless
// ExitCodes says otherwise.
type FakeRunner struct {
	// Compiler is the program name treated as the compiler. Defaults to "ifort".
	Compiler string
	// ExitCodes maps a program name (the compiler, or a binary path) to the
	// exit code it returns. Missing entries exit 0.
	ExitCodes map[string]int
	// SkipCompileOutput makes successful compiles leave no binary behind.
	SkipCompileOutput bool
	// OnRun, when set, is called for every non-compiler invocation after it is
	// recorded; its result replaces the default exit code.
	OnRun func(name string, args []string) (int, error)

	mu    sync.Mutex
	calls []Call
}

// Run implements executable.Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	code := f.ExitCodes[name]
	if name == f.compiler() {
		if code != 0 {
			return code, fmt.Errorf("exit status %d", code)
		}
		if f.SkipCompileOutput {
			return 0, nil
		}
		return 0, writeCompileOutput(args)
	}

	if f.OnRun != nil {
		return f.OnRun(name, args)
	}
	if code != 0 {
		return code, fmt.Errorf("exit status %d", code)
	}
	return 0, nil
}

// Calls returns a copy of every recorded invocation, in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CompileCalls returns the recorded compiler invocations.
func (f *FakeRunner) CompileCalls() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == f.compiler() {
			out = append(out, c)
		}
	}
	return out
}

// RunCalls returns the recorded non-compiler invocations.
func (f *FakeRunner) RunCalls() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name != f.compiler() {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeRunner) compiler() string {
	if f.Compiler == "" {
		return "ifort"
	}
	return f.Compiler
}

func writeCompileOutput(args []string) error {
	for i := 0; i+1 < len(args); i++ {
		if args[i] != "-o" {
			continue
		}
		out := args[i+1]
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte("#!fake\n"), 0o755); err != nil {
			return err
		}
		now := time.Now()
		return os.Chtimes(out, now, now)
	}
	return fmt.Errorf("compile args carry no -o target: %v", args)
}
