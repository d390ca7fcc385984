package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported stages.
const (
	// StageLaunchStart is emitted once the child process has been spawned.
	StageLaunchStart Stage = "LAUNCH_START"
	// StageLaunchExit is emitted when the child exits, whatever its code.
	StageLaunchExit Stage = "LAUNCH_EXIT"
	// StageLaunchError is emitted when the spawn itself fails or the wait
	// fails for a reason other than a non-zero exit.
	StageLaunchError Stage = "LAUNCH_ERROR"
	// StagePlaceholder is emitted when a stub script is synthesized.
	StagePlaceholder Stage = "PLACEHOLDER_CREATED"
)

// Event captures one milestone of a search launch.
type Event struct {
	// LaunchID identifies a launch using the 16-byte UUID form. Placeholder
	// events carry a fresh ID because no process exists.
	LaunchID [16]byte
	// TS is the timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// Token is the menu token of the search method.
	Token string
	// Script is the absolute script path.
	Script string
	// PID is the child process ID, zero when no process was started.
	PID int
	// ExitCode is the child's exit status for StageLaunchExit.
	ExitCode int
	// Dur is the child's wall time for StageLaunchExit.
	Dur time.Duration
	// Note carries low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.LaunchID == [16]byte{} {
		return errors.New("launch id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.Script == "" {
		return errors.New("script is required")
	}
	switch e.Stage {
	case StageLaunchStart:
		if e.PID <= 0 {
			return errors.New("launch start requires pid")
		}
	case StageLaunchExit, StageLaunchError, StagePlaceholder:
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// LaunchUUID converts the binary launch ID to uuid.UUID.
func (e Event) LaunchUUID() uuid.UUID {
	return uuid.UUID(e.LaunchID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}

// Result classifies a finished launch for metrics labels.
func (e Event) Result() string {
	switch {
	case e.Stage == StageLaunchError:
		return "error"
	case e.Stage == StageLaunchExit && e.ExitCode == 0:
		return "success"
	case e.Stage == StageLaunchExit:
		return "failure"
	default:
		return ""
	}
}
