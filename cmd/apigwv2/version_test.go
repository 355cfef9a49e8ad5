package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	v := getVersion()

	if v == "" {
		t.Error("getVersion() returned empty string")
	}

	// Tests run without ldflags, so expect "dev" or a module version.
	if v != "dev" && !strings.HasPrefix(v, "v") {
		t.Errorf("getVersion() = %q, want 'dev' or 'vX.Y.Z'", v)
	}
}

func TestGetVersion_Ldflags(t *testing.T) {
	old := version
	version = "v9.9.9"
	defer func() { version = old }()

	if got := getVersion(); got != "v9.9.9" {
		t.Errorf("getVersion() = %q, want v9.9.9", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	a := &app{stdout: &out, stderr: &bytes.Buffer{}}

	if code := run(context.Background(), a, []string{"version"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out.String(), "apigwv2 ") {
		t.Errorf("output = %q", out.String())
	}
}
