package pipeline

import "github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"

// State identifies where an extraction run currently is. Runs move
// dispatching -> (text_extract | image_extract | rejected) -> correcting ->
// done, with cancelled and failed reachable from any state.
type State string

const (
	StateDispatching  State = "dispatching"
	StateTextExtract  State = "text_extract"
	StateImageExtract State = "image_extract"
	StateRejected     State = "rejected"
	StateCorrecting   State = "correcting"
	StateDone         State = "done"
	StateCancelled    State = "cancelled"
	StateFailed       State = "failed"
)

// Event is one progress update emitted by the coordinator. FramesDone and
// FramesTotal are populated only during image-path recognition.
type Event struct {
	RunID       string
	State       State
	Track       tracks.Track
	Message     string
	FramesDone  int
	FramesTotal int
}
