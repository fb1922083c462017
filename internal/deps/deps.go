package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is an external binary the recorder shells out to.
type Requirement struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// Status is a Requirement after PATH lookup. Path is empty when the binary
// could not be resolved, and Problem then says why.
type Status struct {
	Requirement
	Path    string
	Problem string
}

// Available reports whether the binary resolved.
func (s Status) Available() bool {
	return s.Path != ""
}

// Requirements lists the binaries needed for recording. ffprobe is only
// required when output verification is enabled.
func Requirements(ffmpegBinary, ffprobeBinary string, verifyOutput bool) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegBinary, Purpose: "encodes frames and merges captured audio"},
		{Name: "FFprobe", Command: ffprobeBinary, Purpose: "verifies recordings around the audio merge", Optional: !verifyOutput},
	}
}

// Check resolves every requirement against PATH.
func Check(reqs []Requirement) []Status {
	statuses := make([]Status, len(reqs))
	for i, req := range reqs {
		req.Command = strings.TrimSpace(req.Command)
		st := Status{Requirement: req}
		switch path, err := exec.LookPath(req.Command); {
		case req.Command == "":
			st.Problem = "command not configured"
		case err != nil:
			st.Problem = fmt.Sprintf("binary %q not found", req.Command)
		default:
			st.Path = path
		}
		statuses[i] = st
	}
	return statuses
}

// Split partitions statuses into available ones and missing required ones.
// Missing optional binaries appear in neither.
func Split(statuses []Status) (available, missing []Status) {
	for _, st := range statuses {
		switch {
		case st.Available():
			available = append(available, st)
		case !st.Optional:
			missing = append(missing, st)
		}
	}
	return available, missing
}
