package errors

import (
	"fmt"
	"testing"
)

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrNotFound,
			wantCode: ErrNotFound.code,
			wantLog:  "not found",
		},
		"wrapped registered error": {
			err:      Wrap(ErrUnauthorized, "credential"),
			wantCode: ErrUnauthorized.code,
			wantLog:  "credential: unauthorized",
		},
		"stdlib errors are hidden": {
			err:      fmt.Errorf("disk is on fire"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"wrapped stdlib errors are hidden": {
			err:      Wrap(fmt.Errorf("disk is on fire"), "save"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"stdlib errors are exposed in debug mode": {
			err:      fmt.Errorf("disk is on fire"),
			debug:    true,
			wantCode: internalCode,
			wantLog:  "disk is on fire",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("panic must be redacted")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("debug mode must keep the panic")
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Error("registered errors are kept")
	}
	if err := Redact(fmt.Errorf("internal"), false); err.Error() != internalLog {
		t.Errorf("unexpected redacted message %q", err)
	}
}
