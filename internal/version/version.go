package version

import (
	"fmt"
	"os/exec"
	"strings"
)

// Set through -ldflags at release time.
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// Resolve returns the full version string. Binaries built from a git checkout
// that is not sitting on a release tag get the describe output appended.
func Resolve() string {
	return resolveVersion(Version, runGit)
}

// Summary is the one-line banner printed by `voxdesk version`.
func Summary() string {
	return summarize(Resolve(), Commit, Date)
}

func summarize(resolved, commit, date string) string {
	var extras []string
	if commit != "" && commit != "unknown" {
		extras = append(extras, "commit "+commit)
	}
	if date != "" && date != "unknown" {
		extras = append(extras, "built "+date)
	}

	if len(extras) == 0 {
		return fmt.Sprintf("voxdesk v%s", resolved)
	}
	return fmt.Sprintf("voxdesk v%s (%s)", resolved, strings.Join(extras, ", "))
}

type gitRunner func(...string) (string, error)

func resolveVersion(base string, git gitRunner) string {
	if base == "" {
		base = "0.0.0"
	}

	if suffix := gitSuffix(base, git); suffix != "" {
		return base + "-" + suffix
	}
	return base
}

func gitSuffix(base string, git gitRunner) string {
	if _, err := git("rev-parse", "--git-dir"); err != nil {
		return ""
	}

	if _, err := git("describe", "--tags", "--exact-match"); err == nil {
		return ""
	}

	desc, err := git("describe", "--tags", "--dirty", "--always")
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(desc, "v"+base+"-")
}

func runGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
