package errors

import (
	"bytes"
	stdErrors "errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, slog.Default())
	cases := map[string]struct {
		err  error
		code int
	}{
		"nil":          {nil, 0},
		"validation":   {ValidationError("bad").Build(), 2},
		"auth":         {AuthError("Unauthorized").Build(), 5},
		"storage":      {StorageWriteError("write").Build(), 9},
		"unclassified": {stdErrors.New("x"), 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := a.ExitCodeFor(tc.err); got != tc.code {
				t.Fatalf("ExitCodeFor = %d, want %d", got, tc.code)
			}
		})
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.Default())
	code := a.Report(&out, AuthError("Unauthorized").WithCause(stdErrors.New("status 401")).Build())
	if code != 5 {
		t.Fatalf("expected exit code 5, got %d", code)
	}
	if !strings.Contains(out.String(), "Unauthorized") || strings.Contains(out.String(), "status 401") {
		t.Fatalf("unexpected message in non-verbose mode: %q", out.String())
	}
}
