package deps

import (
	"errors"
	"testing"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "shell", Command: "sh"},
		{Name: "ghost", Command: "definitely-not-a-real-binary-xyz"},
		{Name: "blank", Command: ""},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("sh should be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("missing binary should carry detail: %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("blank command status: %+v", statuses[2])
	}
}

func TestRequireClassifiesMissingTool(t *testing.T) {
	err := Require("mkvmerge", "definitely-not-a-real-binary-xyz")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if err := Require("shell", "sh"); err != nil {
		t.Fatalf("sh should resolve: %v", err)
	}
}
