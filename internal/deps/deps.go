// Package deps reports availability of the external tools the extractor
// shells out to. Discovery is a plain PATH lookup; anything deeper belongs to
// the environment, not this tool.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/config"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

// Requirement defines an external tool the extractor relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a tool.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the tool list from configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "mkvmerge", Command: cfg.Tools.Mkvmerge, Description: "container probing (track listing)"},
		{Name: "mkvextract", Command: cfg.Tools.Mkvextract, Description: "track extraction"},
		{Name: "tesseract", Command: cfg.Tools.Tesseract, Description: "image subtitle OCR", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Require verifies a single binary is resolvable, returning a ToolNotFound
// classified error when it is not.
func Require(name, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return services.Wrap(services.ErrToolNotFound, "deps", name, "command not configured", nil)
	}
	if _, err := exec.LookPath(command); err != nil {
		return services.Wrap(services.ErrToolNotFound, "deps", name, fmt.Sprintf("binary %q not found on PATH", command), err)
	}
	return nil
}
